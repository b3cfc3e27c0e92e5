package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable signals that the cache backend itself cannot be reached.
// The cache is a performance optimization, not a correctness dependency:
// callers treat this error as a miss and read straight from the source of
// truth instead of failing the request.
var ErrUnavailable = errors.New("cache: backend unavailable")

// KeySerializer builds a cache key from an entity namespace, an operation
// name, and the operation's arguments. Keys must be stable across calls and
// processes so identical requests share one entry, and must preserve the
// "namespace::operation" prefix so writes can invalidate a whole segment.
type KeySerializer interface {
	SerializeKey(namespace, operation string, args ...any) string
}

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through and invalidation operations the
// versioned service needs. Implementations must support concurrent use; each
// key's value is replaced atomically.
//
// GetOrFetch only stores a value after fetchFn returns successfully, so a
// timed-out or failed load never leaves a half-populated entry.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// GetOrFetch is the type-safe wrapper over CacheService.GetOrFetch. The
// fetchFn passed through the interface must be a FetchFn[T] for the same T.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	value, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("cache: unexpected value type %T for key %q", result, key)
	}
	return value, nil
}
