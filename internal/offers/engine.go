package offers

import (
	"context"

	"go.uber.org/zap"

	"github.com/address-offers/internal/coverage"
	"github.com/address-offers/internal/store"
)

// Engine matches resolved coverage against the live catalog
type Engine struct {
	reader store.OfferReader
	logger *zap.Logger
}

// NewEngine creates an engine.
func NewEngine(reader store.OfferReader, logger *zap.Logger) *Engine {
	return &Engine{reader: reader, logger: logger}
}

// Catalog loads the current active catalog.
func (e *Engine) Catalog(ctx context.Context) (*Catalog, error) {
	offers, err := e.reader.FindActiveOffers(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(offers), nil
}

// Offers returns the ordered eligible offers for an address in settlementName with coverage cov.
func (e *Engine) Offers(ctx context.Context, cov coverage.Coverage, settlementName string) (Result, error) {
	catalog, err := e.Catalog(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Match(catalog, cov, settlementName)
	e.logger.Debug("Matched offers",
		zap.String("settlement", settlementName),
		zap.Int("catalog", catalog.Len()),
		zap.Int("eligible", len(res.Offers)),
		zap.Bool("has_cable_coverage", res.HasCableCoverage))
	return res, nil
}
