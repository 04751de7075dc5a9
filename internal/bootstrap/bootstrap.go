// Package bootstrap builds the shared components of the service binaries from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/address-offers/app/config"
	"github.com/address-offers/app/services"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/search"
	"github.com/address-offers/internal/store"
	"github.com/address-offers/internal/store/memstore"
	"github.com/address-offers/internal/store/mongostore"
)

// Store is the opened data store. Memory is set for the memory driver so the
// snapshot can be swapped while serving.
type Store struct {
	store.Reader
	Memory *memstore.Store
}

// OpenStore opens the configured store driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		ms, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.QueryTimeout, logger)
		if err != nil {
			return nil, err
		}
		return &Store{Reader: ms}, nil

	case "memory":
		ds, err := LoadDataset(cfg.Store.Snapshot, logger)
		if err != nil {
			return nil, err
		}
		mem := memstore.New(ds)
		return &Store{Reader: mem, Memory: mem}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// LoadDataset reads the snapshot workbook, or the built-in sample when path is empty.
func LoadDataset(path string, logger *zap.Logger) (*dataset.Dataset, error) {
	if path == "" {
		logger.Warn("No snapshot configured, serving the built-in sample dataset")
		return dataset.Sample(), nil
	}
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded snapshot",
		zap.String("path", path),
		zap.Int("settlements", len(ds.Settlements)),
		zap.Int("streets", len(ds.Streets)),
		zap.Int("buildings", len(ds.Buildings)),
		zap.Int("offers", len(ds.Offers)),
		zap.Int("coverage", len(ds.Coverage)))
	return ds, nil
}

// NewCache builds the LRU cache, layered under Redis when redis.url is set.
// It returns nil when caching is disabled.
func NewCache(cfg *config.Config, logger *zap.Logger) (services.ICacheService, error) {
	if !cfg.Cache.Enabled {
		logger.Info("Caching disabled")
		return nil, nil
	}

	l1, err := services.NewLRUCacheService(cfg.Cache.L1Size, cfg.Cache.TTL, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Redis.URL == "" {
		return l1, nil
	}

	l2, err := services.NewRedisCacheService(cfg.Redis.URL, cfg.Cache.TTL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-process cache only", zap.Error(err))
		return l1, nil
	}
	return services.NewHybridCacheService(l1, l2, logger), nil
}

// OpenSearch connects to Meilisearch when meili.url is set. A failure is logged and
// suggestions fall back to substring search.
func OpenSearch(cfg *config.Config, logger *zap.Logger) *search.SettlementIndex {
	if cfg.Meili.URL == "" {
		return nil
	}
	si, err := search.NewSettlementIndex(search.Config{
		Host:      cfg.Meili.URL,
		APIKey:    cfg.Meili.APIKey,
		IndexName: cfg.Meili.Index,
	}, logger)
	if err != nil {
		logger.Warn("Meilisearch unavailable, suggestions use substring search", zap.Error(err))
		return nil
	}
	return si
}

// NewIndex builds the locality index with the configured street naming rules.
func NewIndex(cfg *config.Config, reader store.LocalityReader, logger *zap.Logger) (*locality.Index, error) {
	rules, err := normalizer.LoadStreetRules(cfg.Normalizer.StreetRules)
	if err != nil {
		return nil, err
	}
	return locality.NewIndex(reader, normalizer.NewStreetNamer(rules), cfg.Search, logger), nil
}
