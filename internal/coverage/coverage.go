// Package coverage resolves which operators have usable infrastructure at an address key.
package coverage

import (
	"context"

	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/store"
)

// Coverage maps operator id to capacity. Only capacities > 0 are ever present.
type Coverage map[string]int

// Has reports whether the operator has usable infrastructure.
func (c Coverage) Has(operatorID string) bool {
	return c[operatorID] > 0
}

// Operators returns the number of covering operators.
func (c Coverage) Operators() int { return len(c) }

// Build reduces raw records of one address to a Coverage. When an operator has several
// records the most recently updated one decides; inert records (capacity 0) are dropped
// after that decision, so a newer zero overrides an older positive capacity.
func Build(records []models.CoverageRecord) Coverage {
	latest := make(map[string]models.CoverageRecord, len(records))
	for _, rec := range records {
		prev, ok := latest[rec.OperatorID]
		if !ok || !rec.UpdatedAt.Before(prev.UpdatedAt) {
			latest[rec.OperatorID] = rec
		}
	}
	out := make(Coverage, len(latest))
	for id, rec := range latest {
		if rec.IsUsable() {
			out[id] = rec.Capacity
		}
	}
	return out
}

// Reader is what the resolver needs from the store
type Reader interface {
	store.CoverageReader
	HasBuilding(ctx context.Context, key models.AddressKey) (bool, error)
}

// Resolver looks up coverage by exact address key
type Resolver struct {
	reader Reader
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(reader Reader, logger *zap.Logger) *Resolver {
	return &Resolver{reader: reader, logger: logger}
}

// Resolve returns the usable coverage at key. Incomplete keys and keys missing from the
// registry resolve to an empty coverage, whatever coverage rows point at them; only store
// failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, key models.AddressKey) (Coverage, error) {
	if !key.IsComplete() {
		return Coverage{}, nil
	}
	known, err := r.reader.HasBuilding(ctx, key)
	if err != nil {
		return nil, err
	}
	if !known {
		r.logger.Debug("Address not in registry, ignoring its coverage", zap.String("address", key.String()))
		return Coverage{}, nil
	}
	records, err := r.reader.FindCoverage(ctx, key)
	if err != nil {
		return nil, err
	}
	cov := Build(records)
	r.logger.Debug("Resolved coverage",
		zap.String("address", key.String()),
		zap.Int("records", len(records)),
		zap.Int("operators", cov.Operators()))
	return cov, nil
}
