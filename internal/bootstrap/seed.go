package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/search"
	"github.com/address-offers/internal/store/mongostore"
)

// Seeder pushes a dataset into MongoDB and, when present, the settlement search index
type Seeder struct {
	Mongo  *mongostore.Store
	Search *search.SettlementIndex
	Logger *zap.Logger
}

// Seed upserts ds. Indexes and search settings are (re)applied first, so a fresh
// deployment can be seeded in one step.
func (s *Seeder) Seed(ctx context.Context, ds *dataset.Dataset) error {
	if s.Mongo != nil {
		if err := s.Mongo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
		res, err := s.Mongo.Seed(ctx, ds)
		if err != nil {
			return fmt.Errorf("failed to seed MongoDB: %w", err)
		}
		fields := make([]zap.Field, 0, len(res))
		for coll, n := range res {
			fields = append(fields, zap.Int64(coll, n))
		}
		s.Logger.Info("Seeded MongoDB", fields...)
	}

	if s.Search != nil {
		if err := s.Search.Configure(); err != nil {
			return fmt.Errorf("failed to configure search index: %w", err)
		}
		n, err := s.Search.Seed(ds.Settlements)
		if err != nil {
			return fmt.Errorf("failed to seed search index: %w", err)
		}
		s.Logger.Info("Seeded search index", zap.Int("settlements", n))
	}
	return nil
}
