// Package redis provides the Redis-backed draft cache
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meadcraft/meadery/internal/infrastructure/config"
	"github.com/meadcraft/meadery/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OperationRecorder receives one observation per cache call
type OperationRecorder interface {
	CacheOperation(operation, status string)
}

type noopRecorder struct{}

func (noopRecorder) CacheOperation(string, string) {}

// CacheRepository implements outbound.CacheRepository on a Redis client
type CacheRepository struct {
	client  redis.UniversalClient
	breaker *CircuitBreaker
	metrics OperationRecorder
	logger  *zap.Logger
}

// NewClient builds a universal client from configuration and pings it
func NewClient(ctx context.Context, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.Addr},
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewCacheRepository wraps client with a circuit breaker. metrics may be nil.
func NewCacheRepository(client redis.UniversalClient, metrics OperationRecorder, logger *zap.Logger) *CacheRepository {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &CacheRepository{
		client:  client,
		breaker: NewCircuitBreaker(5, 30*time.Second),
		metrics: metrics,
		logger:  logger.Named("redis-cache"),
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value; a missing key yields outbound.ErrCacheMiss
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if !r.breaker.AllowRequest() {
		r.metrics.CacheOperation("get", "rejected")
		return nil, ErrCircuitOpen
	}

	result, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.breaker.RecordSuccess()
		r.metrics.CacheOperation("get", "miss")
		return nil, outbound.ErrCacheMiss
	}
	if err != nil {
		r.fail("get", key, err)
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}

	r.breaker.RecordSuccess()
	r.metrics.CacheOperation("get", "hit")
	return result, nil
}

// Set stores a value with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !r.breaker.AllowRequest() {
		r.metrics.CacheOperation("set", "rejected")
		return ErrCircuitOpen
	}

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.fail("set", key, err)
		return fmt.Errorf("redis set %q: %w", key, err)
	}

	r.breaker.RecordSuccess()
	r.metrics.CacheOperation("set", "ok")
	return nil
}

// Delete removes a key
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if !r.breaker.AllowRequest() {
		r.metrics.CacheOperation("delete", "rejected")
		return ErrCircuitOpen
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.fail("delete", key, err)
		return fmt.Errorf("redis del %q: %w", key, err)
	}

	r.breaker.RecordSuccess()
	r.metrics.CacheOperation("delete", "ok")
	return nil
}

// Exists checks whether a key is present
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	if !r.breaker.AllowRequest() {
		r.metrics.CacheOperation("exists", "rejected")
		return false, ErrCircuitOpen
	}

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.fail("exists", key, err)
		return false, fmt.Errorf("redis exists %q: %w", key, err)
	}

	r.breaker.RecordSuccess()
	r.metrics.CacheOperation("exists", "ok")
	return n > 0, nil
}

// Ping checks connectivity, bypassing the breaker
func (r *CacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *CacheRepository) fail(operation, key string, err error) {
	r.breaker.RecordFailure()
	r.metrics.CacheOperation(operation, "error")
	r.logger.Error("Redis operation failed",
		zap.String("operation", operation),
		zap.String("key", key),
		zap.String("breaker", r.breaker.State().String()),
		zap.Error(err))
}
