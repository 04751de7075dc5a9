package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// cached serves key from cache when present, otherwise computes and stores it.
// Cache failures only cost a recomputation.
func cached[T any](ctx context.Context, cache ICacheService, logger *zap.Logger, key string, compute func() (T, error)) (T, error) {
	if cache == nil {
		return compute()
	}

	if raw, found, err := cache.Get(ctx, key); err != nil {
		logger.Warn("Cache get failed", zap.Error(err), zap.String("key", key))
	} else if found {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			logger.Debug("Cache hit", zap.String("key", key))
			return v, nil
		}
		logger.Warn("Dropping undecodable cache entry", zap.String("key", key))
		_ = cache.Delete(ctx, key)
	}

	logger.Debug("Cache miss", zap.String("key", key))
	v, err := compute()
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := cache.Set(ctx, key, raw); err != nil {
			logger.Warn("Cache set failed", zap.Error(err), zap.String("key", key))
		}
	}
	return v, nil
}
