package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/parser"
)

// TextOffers is the parse of a free-text address with the offers of the building it names
type TextOffers struct {
	Parse  *parser.Result `json:"parse"`
	Offers *AddressOffers `json:"offers,omitempty"`
}

// AddressService resolves free-text addresses
type AddressService struct {
	parser *parser.AddressParser
	offers *OfferService
	cache  ICacheService
	logger *zap.Logger
}

// NewAddressService creates an AddressService. cache may be nil.
func NewAddressService(p *parser.AddressParser, offers *OfferService, cache ICacheService, logger *zap.Logger) *AddressService {
	return &AddressService{
		parser: p,
		offers: offers,
		cache:  cache,
		logger: logger,
	}
}

// ParseAddress resolves raw to its most likely address.
func (as *AddressService) ParseAddress(ctx context.Context, raw string) (*parser.Result, error) {
	raw = strings.TrimSpace(raw)
	key := cacheKey("parse", normalizer.Normalize(raw))
	return cached(ctx, as.cache, as.logger, key, func() (*parser.Result, error) {
		return as.parser.ParseAddress(ctx, raw)
	})
}

// ParseBatch resolves every address; one store failure fails the batch.
func (as *AddressService) ParseBatch(ctx context.Context, raws []string) ([]*parser.Result, error) {
	out := make([]*parser.Result, 0, len(raws))
	for _, raw := range raws {
		res, err := as.ParseAddress(ctx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	as.logger.Info("Parsed address batch", zap.Int("total", len(raws)))
	return out, nil
}

// OffersForText parses raw and, when it names a building, resolves its offers.
func (as *AddressService) OffersForText(ctx context.Context, raw string) (*TextOffers, error) {
	res, err := as.ParseAddress(ctx, raw)
	if err != nil {
		return nil, err
	}
	out := &TextOffers{Parse: res}
	if res.Key == nil {
		return out, nil
	}
	out.Offers, err = as.offers.ResolveOffers(ctx, res.Key.SettlementCode, res.Key.StreetID, res.Key.Number)
	if err != nil {
		return nil, err
	}
	return out, nil
}
