package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// HybridCacheService layers a fast local cache (L1) over a shared one (L2)
type HybridCacheService struct {
	l1     ICacheService
	l2     ICacheService
	logger *zap.Logger
}

// NewHybridCacheService creates the two-level cache.
func NewHybridCacheService(l1, l2 ICacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{l1: l1, l2: l2, logger: logger}
}

// Get reads L1 then L2; an L2 hit is copied back into L1.
func (hcs *HybridCacheService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found, err := hcs.l1.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("L1 cache error, falling back to L2", zap.Error(err))
	} else if found {
		return val, true, nil
	}

	val, found, err = hcs.l2.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hcs.l1.Set(bgCtx, key, val); err != nil {
			hcs.logger.Warn("Failed to backfill L1", zap.Error(err), zap.String("key", key))
		}
	}()
	return val, true, nil
}

// Set writes both levels concurrently.
func (hcs *HybridCacheService) Set(ctx context.Context, key string, value []byte) error {
	return hcs.both(func(c ICacheService) error { return c.Set(ctx, key, value) })
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return hcs.both(func(c ICacheService) error { return c.Delete(ctx, key) })
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := hcs.both(func(c ICacheService) error { return c.Clear(ctx) }); err != nil {
		return err
	}
	hcs.logger.Info("Cleared hybrid cache")
	return nil
}

// GetStats sums both levels; one failing level is tolerated.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	s1, err1 := hcs.l1.GetStats(ctx)
	s2, err2 := hcs.l2.GetStats(ctx)
	switch {
	case err1 != nil && err2 != nil:
		return nil, errors.Join(err1, err2)
	case err1 != nil:
		return s2, nil
	case err2 != nil:
		return s1, nil
	}
	hits := s1.TotalHits + s2.TotalHits
	misses := s1.TotalMiss + s2.TotalMiss
	return &CacheStats{
		Backend:    s1.Backend + "+" + s2.Backend,
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: s1.TotalItems + s2.TotalItems,
	}, nil
}

func (hcs *HybridCacheService) Close() error {
	return hcs.both(func(c ICacheService) error { return c.Close() })
}

func (hcs *HybridCacheService) both(op func(ICacheService) error) error {
	errCh := make(chan error, 2)
	for _, c := range []ICacheService{hcs.l1, hcs.l2} {
		go func(c ICacheService) { errCh <- op(c) }(c)
	}
	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
