// Package redisinfra adapts a Redis server to the module's CacheService
// contract for deployments that want the cache outside the process. Values
// are msgpack-encoded; the fetch function's return type, recovered through
// reflection, tells the adapter what to decode into.
package redisinfra

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-record-store/internal/fetchfn"
)

// errUnavailable tags connection-level failures. The public cache package
// maps it onto cache.ErrUnavailable; callers never see this sentinel.
var errUnavailable = errors.New("redis unavailable")

// IsUnavailable reports whether err is a connection-level Redis failure as
// opposed to a miss or a codec problem.
func IsUnavailable(err error) bool {
	return errors.Is(err, errUnavailable)
}

// Config holds the Redis adapter settings.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password authenticates the connection. Empty means no auth.
	Password string

	// DB selects the Redis logical database.
	DB int

	// TTL expires entries that explicit invalidation never reached, for
	// example entries written by a process that died mid-request. Must be
	// greater than 0.
	TTL time.Duration
}

// Validate reports the first invalid configuration field.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redisinfra: Addr is required")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("redisinfra: TTL must be greater than 0")
	}
	return nil
}

// Service wraps a Redis client behind the CacheService contract.
type Service struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewService validates cfg and builds a Redis-backed cache service. The
// connection is established lazily; an unreachable server surfaces as an
// unavailability error on first use, not here.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Service{rdb: rdb, ttl: cfg.TTL}, nil
}

// Close releases the underlying Redis connection pool.
func (s *Service) Close() error {
	return s.rdb.Close()
}

// Ping verifies connectivity.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", errUnavailable, err)
	}
	return nil
}

// GetOrFetch returns the decoded value stored under key. On a miss it
// invokes fetchFn, stores the encoded result, and returns it. The value is
// only written after a fully successful fetch.
func (s *Service) GetOrFetch(ctx context.Context, key string, fn any) (any, error) {
	if err := fetchfn.Validate(fn); err != nil {
		return nil, err
	}

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return decode(data, fetchfn.OutType(fn))
	case errors.Is(err, redis.Nil):
		// miss, fall through to the source of truth
	default:
		return nil, fmt.Errorf("%w: %v", errUnavailable, err)
	}

	value, err := fetchfn.Call(ctx, fn)
	if err != nil {
		return nil, err
	}

	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("redisinfra: encode %q: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
		// The fetched value is still good; the entry just was not cached.
		return value, nil
	}
	return value, nil
}

// decode unmarshals data into a fresh value of type t. Pointer types get
// one allocation of their element so the caller receives the same shape the
// fetch function would have produced.
func decode(data []byte, t reflect.Type) (any, error) {
	if t.Kind() == reflect.Pointer {
		out := reflect.New(t.Elem())
		if err := msgpack.Unmarshal(data, out.Interface()); err != nil {
			return nil, fmt.Errorf("redisinfra: decode: %w", err)
		}
		return out.Interface(), nil
	}
	out := reflect.New(t)
	if err := msgpack.Unmarshal(data, out.Interface()); err != nil {
		return nil, fmt.Errorf("redisinfra: decode: %w", err)
	}
	return out.Elem().Interface(), nil
}

// Delete removes one entry.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", errUnavailable, err)
	}
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix using an
// incremental SCAN, so it never blocks the server the way KEYS would.
func (s *Service) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 256).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %v", errUnavailable, err)
	}
	return s.InvalidateKeys(ctx, keys)
}

// InvalidateKeys removes the given entries in one round trip.
func (s *Service) InvalidateKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", errUnavailable, err)
	}
	return nil
}
