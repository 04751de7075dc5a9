package services

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/address-offers/internal/store"
)

// HealthChecker is implemented by optional dependencies that can report health
type HealthChecker interface {
	Healthy() bool
}

// ReadinessReport describes the state of every dependency
type ReadinessReport struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// SystemStats is a snapshot of process metrics
type SystemStats struct {
	Uptime      string                 `json:"uptime"`
	Goroutines  int                    `json:"goroutines"`
	MemoryUsage map[string]interface{} `json:"memory_usage"`
	Cache       *CacheStats            `json:"cache,omitempty"`
}

// AdminService serves operational endpoints
type AdminService struct {
	reader    store.Reader
	cache     ICacheService
	search    HealthChecker
	startTime time.Time
	logger    *zap.Logger
}

// NewAdminService creates the service. cache and search may be nil.
func NewAdminService(reader store.Reader, cache ICacheService, search HealthChecker, logger *zap.Logger) *AdminService {
	return &AdminService{
		reader:    reader,
		cache:     cache,
		search:    search,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Readiness pings the store and the optional search index. Only the store is required.
func (as *AdminService) Readiness(ctx context.Context) *ReadinessReport {
	report := &ReadinessReport{Ready: true, Checks: map[string]string{}}

	if err := as.reader.Ping(ctx); err != nil {
		as.logger.Warn("Store ping failed", zap.Error(err))
		report.Ready = false
		report.Checks["store"] = "unavailable"
	} else {
		report.Checks["store"] = "ok"
	}

	if as.search != nil {
		if as.search.Healthy() {
			report.Checks["search"] = "ok"
		} else {
			report.Checks["search"] = "degraded"
		}
	}
	return report
}

// CacheStats returns cache statistics, or nil when caching is disabled.
func (as *AdminService) CacheStats(ctx context.Context) (*CacheStats, error) {
	if as.cache == nil {
		return nil, nil
	}
	return as.cache.GetStats(ctx)
}

// ClearCache empties the cache.
func (as *AdminService) ClearCache(ctx context.Context) error {
	if as.cache == nil {
		return nil
	}
	return as.cache.Clear(ctx)
}

// SystemStats reports process metrics.
func (as *AdminService) SystemStats(ctx context.Context) *SystemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &SystemStats{
		Uptime:     time.Since(as.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
	}
	if cs, err := as.CacheStats(ctx); err == nil {
		stats.Cache = cs
	}
	return stats
}
