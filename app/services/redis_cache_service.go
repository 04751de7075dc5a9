package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "addr_offers:"

// RedisCacheService shares cached lookups between instances
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCacheService connects to redisURL and verifies the connection.
func NewRedisCacheService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheServiceWithClient(client, ttl, logger), nil
}

// NewRedisCacheServiceWithClient wraps an existing client.
func NewRedisCacheServiceWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCacheService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: redisKeyPrefix,
		ttl:    ttl,
	}
}

func (rcs *RedisCacheService) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := rcs.client.Get(ctx, rcs.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		rcs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rcs.logger.Error("Failed to get from Redis", zap.Error(err), zap.String("key", key))
		return nil, false, err
	}
	rcs.hits.Add(1)
	return val, true, nil
}

func (rcs *RedisCacheService) Set(ctx context.Context, key string, value []byte) error {
	if err := rcs.client.Set(ctx, rcs.prefix+key, value, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("Failed to set in Redis", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

func (rcs *RedisCacheService) Delete(ctx context.Context, key string) error {
	return rcs.client.Del(ctx, rcs.prefix+key).Err()
}

// Clear deletes every key under the service prefix, scanning rather than using KEYS.
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	deleted := 0
	iter := rcs.client.Scan(ctx, 0, rcs.prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := rcs.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	if len(batch) > 0 {
		if err := rcs.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
		deleted += len(batch)
	}

	rcs.hits.Store(0)
	rcs.misses.Store(0)
	rcs.logger.Info("Cleared Redis cache", zap.Int("keys_deleted", deleted))
	return nil
}

func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	var items int64
	iter := rcs.client.Scan(ctx, 0, rcs.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		items++
	}
	if err := iter.Err(); err != nil {
		rcs.logger.Warn("Failed to count Redis keys", zap.Error(err))
	}

	hits, misses := rcs.hits.Load(), rcs.misses.Load()
	return &CacheStats{
		Backend:    "redis",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: items,
	}, nil
}

func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}
