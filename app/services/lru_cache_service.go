package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// LRUCacheService is an in-process cache with per-entry expiry
type LRUCacheService struct {
	cache  *expirable.LRU[string, []byte]
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRUCacheService creates an LRU cache holding at most size entries for ttl each.
func NewLRUCacheService(size int, ttl time.Duration, logger *zap.Logger) (*LRUCacheService, error) {
	if size <= 0 {
		return nil, fmt.Errorf("LRU cache size must be positive, got %d", size)
	}
	return &LRUCacheService{
		cache:  expirable.NewLRU[string, []byte](size, nil, ttl),
		logger: logger,
	}, nil
}

func (lcs *LRUCacheService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := lcs.cache.Get(key)
	if !ok {
		lcs.misses.Add(1)
		return nil, false, nil
	}
	lcs.hits.Add(1)
	return val, true, nil
}

func (lcs *LRUCacheService) Set(ctx context.Context, key string, value []byte) error {
	lcs.cache.Add(key, value)
	return nil
}

func (lcs *LRUCacheService) Delete(ctx context.Context, key string) error {
	lcs.cache.Remove(key)
	return nil
}

func (lcs *LRUCacheService) Clear(ctx context.Context) error {
	lcs.cache.Purge()
	lcs.hits.Store(0)
	lcs.misses.Store(0)
	lcs.logger.Info("Cleared LRU cache")
	return nil
}

func (lcs *LRUCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := lcs.hits.Load(), lcs.misses.Load()
	return &CacheStats{
		Backend:    "lru",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(lcs.cache.Len()),
	}, nil
}

func (lcs *LRUCacheService) Close() error { return nil }
