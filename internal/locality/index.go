// Package locality implements the cascading settlement -> street -> building number lookups.
package locality

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/store"
)

// Config bounds every lookup
type Config struct {
	SettlementLimit int `mapstructure:"settlement_limit"`
	StreetLimit     int `mapstructure:"street_limit"`
	StreetOverfetch int `mapstructure:"street_overfetch"`
	NumberLimit     int `mapstructure:"number_limit"`
	MinQueryLength  int `mapstructure:"min_query_length"`
}

// DefaultConfig returns the production bounds.
func DefaultConfig() Config {
	return Config{
		SettlementLimit: 20,
		StreetLimit:     50,
		StreetOverfetch: 200,
		NumberLimit:     200,
		MinQueryLength:  2,
	}
}

// numberQueryRe accepts what can start a building number: a digit, then digits,
// letters, slashes or dashes.
var numberQueryRe = regexp.MustCompile(`^[0-9][0-9\pL/\-]{0,15}$`)

// StreetHit is one street suggestion
type StreetHit struct {
	SettlementCode string `json:"settlement_code"`
	StreetID       string `json:"street_id"`
	Name           string `json:"name"` // canonical display name
	RawName        string `json:"raw_name"`
	Type           string `json:"type"` // street-type bucket, "other" when none
}

// Index answers the three chained lookups against a LocalityReader
type Index struct {
	reader store.LocalityReader
	namer  *normalizer.StreetNamer
	cfg    Config
	logger *zap.Logger
}

// NewIndex creates an index. Zero config fields fall back to DefaultConfig.
func NewIndex(reader store.LocalityReader, namer *normalizer.StreetNamer, cfg Config, logger *zap.Logger) *Index {
	def := DefaultConfig()
	if cfg.SettlementLimit <= 0 {
		cfg.SettlementLimit = def.SettlementLimit
	}
	if cfg.StreetLimit <= 0 {
		cfg.StreetLimit = def.StreetLimit
	}
	if cfg.StreetOverfetch < cfg.StreetLimit {
		cfg.StreetOverfetch = def.StreetOverfetch
		if cfg.StreetOverfetch < cfg.StreetLimit {
			cfg.StreetOverfetch = cfg.StreetLimit
		}
	}
	if cfg.NumberLimit <= 0 {
		cfg.NumberLimit = def.NumberLimit
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = def.MinQueryLength
	}
	return &Index{reader: reader, namer: namer, cfg: cfg, logger: logger}
}

// Config returns the effective bounds.
func (ix *Index) Config() Config { return ix.cfg }

func (ix *Index) queryKey(query string) (string, bool) {
	key := normalizer.Normalize(query)
	return key, utf8.RuneCountInString(key) >= ix.cfg.MinQueryLength
}

// SearchSettlements matches settlements by substring of the normalized name, ordered by
// weight descending then name. Short queries yield an empty result.
func (ix *Index) SearchSettlements(ctx context.Context, query string) ([]models.Settlement, error) {
	key, ok := ix.queryKey(query)
	if !ok {
		return []models.Settlement{}, nil
	}
	out, err := ix.reader.FindSettlements(ctx, store.SettlementQuery{Contains: key, Limit: ix.cfg.SettlementLimit})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Settlement{}
	}
	return out, nil
}

// HasStreets reports whether the settlement has at least one real named street.
func (ix *Index) HasStreets(ctx context.Context, settlementCode string) (bool, error) {
	if strings.TrimSpace(settlementCode) == "" {
		return false, nil
	}
	return ix.reader.HasNamedStreets(ctx, settlementCode)
}

type streetCandidate struct {
	hit       StreetHit
	redundant bool
	sortKey   string
}

// SearchStreets returns canonicalized streets of one settlement, deduplicated by street id
// (first row wins) and ordered by street-type bucket then locale-aware name.
func (ix *Index) SearchStreets(ctx context.Context, settlementCode, query string) ([]StreetHit, error) {
	key, ok := ix.queryKey(query)
	if !ok || strings.TrimSpace(settlementCode) == "" {
		return []StreetHit{}, nil
	}
	has, err := ix.HasStreets(ctx, settlementCode)
	if err != nil {
		return nil, err
	}
	if !has {
		return []StreetHit{}, nil
	}

	rows, err := ix.reader.FindStreets(ctx, store.StreetQuery{
		SettlementCode: settlementCode,
		Contains:       key,
		Limit:          ix.cfg.StreetOverfetch,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	kept := make(map[string]struct{}, len(rows)) // canonical names of non-redundant rows
	candidates := make([]streetCandidate, 0, len(rows))
	for _, row := range rows {
		if row.IsPlaceholder() {
			continue
		}
		if _, dup := seen[row.StreetID]; dup {
			continue
		}
		seen[row.StreetID] = struct{}{}

		display := ix.namer.Canonicalize(row.Name)
		c := streetCandidate{
			hit: StreetHit{
				SettlementCode: row.SettlementCode,
				StreetID:       row.StreetID,
				Name:           display,
				RawName:        row.Name,
				Type:           ix.namer.Bucket(display),
			},
			redundant: ix.namer.IsRedundantAbbreviation(row.Name),
			sortKey:   ix.namer.SortKey(display),
		}
		if !c.redundant {
			kept[display] = struct{}{}
		}
		candidates = append(candidates, c)
	}

	out := make([]streetCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, twin := kept[c.hit.Name]; c.redundant && twin {
			ix.logger.Debug("Dropping redundant street abbreviation",
				zap.String("settlement_code", settlementCode),
				zap.String("street_id", c.hit.StreetID),
				zap.String("raw_name", c.hit.RawName))
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].sortKey != out[j].sortKey {
			return out[i].sortKey < out[j].sortKey
		}
		return out[i].hit.StreetID < out[j].hit.StreetID
	})
	if len(out) > ix.cfg.StreetLimit {
		out = out[:ix.cfg.StreetLimit]
	}

	hits := make([]StreetHit, len(out))
	for i, c := range out {
		hits[i] = c.hit
	}
	return hits, nil
}

// ValidNumberQuery reports whether q can prefix a building number. Empty is valid.
func ValidNumberQuery(q string) bool {
	q = strings.TrimSpace(q)
	return q == "" || numberQueryRe.MatchString(q)
}

// SearchBuildingNumbers lists building numbers of a street (models.NoStreetID or empty for a
// streetless settlement), prefix-matched on the raw number, numeric order first.
func (ix *Index) SearchBuildingNumbers(ctx context.Context, settlementCode, streetID, query string) ([]models.BuildingNumber, error) {
	query = strings.TrimSpace(query)
	if strings.TrimSpace(settlementCode) == "" || !ValidNumberQuery(query) {
		return []models.BuildingNumber{}, nil
	}
	if strings.TrimSpace(streetID) == "" {
		streetID = models.NoStreetID
	}

	rows, err := ix.reader.FindBuildingNumbers(ctx, store.BuildingQuery{
		SettlementCode: settlementCode,
		StreetID:       streetID,
		Prefix:         query,
		Limit:          ix.cfg.NumberLimit * 2,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]models.BuildingNumber, 0, len(rows))
	for _, b := range rows {
		if _, dup := seen[b.Number]; dup {
			continue
		}
		seen[b.Number] = struct{}{}
		b.NumberSort = models.NumberSortValue(b.Number)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NumberSort != out[j].NumberSort {
			return out[i].NumberSort < out[j].NumberSort
		}
		return out[i].Number < out[j].Number
	})
	if len(out) > ix.cfg.NumberLimit {
		out = out[:ix.cfg.NumberLimit]
	}
	return out, nil
}
