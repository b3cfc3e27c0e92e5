package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-record-store/internal/cacheinfra"
	"github.com/goliatone/go-record-store/internal/redisinfra"
)

// Config exposes the in-memory cache options for consumers of this package.
type Config struct {
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *EarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return fromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the default in-memory cache service.
func NewCacheService(cfg Config) (CacheService, error) {
	return cacheinfra.NewService(cfg.toInternal())
}

func (c Config) toInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}
	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func fromInternal(cfg cacheinfra.Config) Config {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}
	return Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}

// RedisConfig exposes the Redis cache backend options.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string
	// Password authenticates the connection. Empty means no auth.
	Password string
	// DB selects the Redis logical database.
	DB int
	// TTL is a safety net for entries that explicit invalidation never
	// reached. Must be greater than 0.
	TTL time.Duration
}

// NewRedisCacheService constructs a Redis-backed cache service. Connection
// failures at use time surface as ErrUnavailable so the versioned service
// degrades to reading the store directly.
func NewRedisCacheService(cfg RedisConfig) (CacheService, error) {
	inner, err := redisinfra.NewService(redisinfra.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	})
	if err != nil {
		return nil, err
	}
	return &redisBacked{inner: inner}, nil
}

// redisBacked maps the internal adapter's connection errors onto the public
// ErrUnavailable sentinel.
type redisBacked struct {
	inner *redisinfra.Service
}

func (r *redisBacked) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	value, err := r.inner.GetOrFetch(ctx, key, fetchFn)
	return value, mapRedisErr(err)
}

func (r *redisBacked) Delete(ctx context.Context, key string) error {
	return mapRedisErr(r.inner.Delete(ctx, key))
}

func (r *redisBacked) DeleteByPrefix(ctx context.Context, prefix string) error {
	return mapRedisErr(r.inner.DeleteByPrefix(ctx, prefix))
}

func (r *redisBacked) InvalidateKeys(ctx context.Context, keys []string) error {
	return mapRedisErr(r.inner.InvalidateKeys(ctx, keys))
}

func mapRedisErr(err error) error {
	if err == nil {
		return nil
	}
	if redisinfra.IsUnavailable(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
