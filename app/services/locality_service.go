package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/search"
	"github.com/address-offers/internal/store"
)

// SettlementSuggester proposes settlements for misspelled queries
type SettlementSuggester interface {
	Suggest(query string, limit int) ([]models.Settlement, error)
}

// LocalityService fronts the locality index with caching and suggestions
type LocalityService struct {
	index     *locality.Index
	reader    store.LocalityReader
	cache     ICacheService
	suggester SettlementSuggester
	logger    *zap.Logger
}

// NewLocalityService creates the service. cache and suggester may be nil.
func NewLocalityService(index *locality.Index, reader store.LocalityReader, cache ICacheService, suggester SettlementSuggester, logger *zap.Logger) *LocalityService {
	return &LocalityService{
		index:     index,
		reader:    reader,
		cache:     cache,
		suggester: suggester,
		logger:    logger,
	}
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// SearchSettlements runs the ranked substring search.
func (ls *LocalityService) SearchSettlements(ctx context.Context, query string) ([]models.Settlement, error) {
	key := cacheKey("settlements", normalizer.Normalize(query))
	return cached(ctx, ls.cache, ls.logger, key, func() ([]models.Settlement, error) {
		return ls.index.SearchSettlements(ctx, query)
	})
}

// SuggestSettlements returns typo-tolerant suggestions, falling back to re-ranked
// substring matches when no suggester is configured or it fails.
func (ls *LocalityService) SuggestSettlements(ctx context.Context, query string) ([]models.Settlement, error) {
	limit := ls.index.Config().SettlementLimit
	if ls.suggester != nil && utf8.RuneCountInString(normalizer.Normalize(query)) >= ls.index.Config().MinQueryLength {
		out, err := ls.suggester.Suggest(query, limit)
		if err == nil {
			return out, nil
		}
		ls.logger.Warn("Suggester failed, falling back to substring search", zap.Error(err))
	}

	candidates, err := ls.index.SearchSettlements(ctx, query)
	if err != nil {
		return nil, err
	}
	return search.RankSuggestions(query, candidates, limit), nil
}

// GetSettlement looks a settlement up by registry code.
func (ls *LocalityService) GetSettlement(ctx context.Context, code string) (*models.Settlement, bool, error) {
	return ls.reader.GetSettlement(ctx, code)
}

// HasStreets reports whether the settlement has named streets.
func (ls *LocalityService) HasStreets(ctx context.Context, code string) (bool, error) {
	key := cacheKey("has_streets", code)
	return cached(ctx, ls.cache, ls.logger, key, func() (bool, error) {
		return ls.index.HasStreets(ctx, code)
	})
}

// SearchStreets lists canonicalized streets of a settlement.
func (ls *LocalityService) SearchStreets(ctx context.Context, code, query string) ([]locality.StreetHit, error) {
	key := cacheKey("streets", code, normalizer.Normalize(query))
	return cached(ctx, ls.cache, ls.logger, key, func() ([]locality.StreetHit, error) {
		return ls.index.SearchStreets(ctx, code, query)
	})
}

// SearchBuildingNumbers lists building numbers of a street or streetless settlement.
func (ls *LocalityService) SearchBuildingNumbers(ctx context.Context, code, streetID, query string) ([]models.BuildingNumber, error) {
	if streetID == "" {
		streetID = models.NoStreetID
	}
	key := cacheKey("numbers", code, streetID, strings.ToLower(strings.TrimSpace(query)))
	return cached(ctx, ls.cache, ls.logger, key, func() ([]models.BuildingNumber, error) {
		return ls.index.SearchBuildingNumbers(ctx, code, streetID, query)
	})
}
