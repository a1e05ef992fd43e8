package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a JSON-encoded TTL cache stored in Redis. Keys are namespaced by
// prefix so several caches can share one database.
type Redis[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient opens a client for addr ("host:port").
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// NewRedis wraps client as a cache of T.
func NewRedis[T any](client redis.UniversalClient, prefix string, ttl time.Duration, logger *zap.Logger) *Redis[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis[T]{client: client, prefix: prefix + ":", ttl: ttl, logger: logger}
}

// Get returns the decoded value. Network and decode errors count as misses.
func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.Warn("redis value undecodable", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// Set stores value with the cache TTL. Failures are logged and dropped.
func (r *Redis[T]) Set(ctx context.Context, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("redis value unencodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes key.
func (r *Redis[T]) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		r.logger.Warn("redis delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks connectivity; used by the readiness probe.
func (r *Redis[T]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
