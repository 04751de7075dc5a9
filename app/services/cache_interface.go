package services

import (
	"context"
)

// CacheStats summarizes cache effectiveness
type CacheStats struct {
	Backend    string  `json:"backend"`
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// ICacheService stores serialized lookup results
type ICacheService interface {
	// Get returns the cached value and whether it was found
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, value []byte) error

	Delete(ctx context.Context, key string) error

	// Clear drops every entry owned by this cache
	Clear(ctx context.Context) error

	GetStats(ctx context.Context) (*CacheStats, error)

	Close() error
}
