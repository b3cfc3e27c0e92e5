// Package cache provides the caching interfaces and key serialization used
// by the versioned record store.
//
// # Overview
//
// The package exports two interfaces and their default implementations:
//
//   - CacheService: read-through caching plus explicit invalidation
//   - KeySerializer: builds stable cache keys from a namespace, an
//     operation name, and the operation's arguments
//
// Two CacheService backends ship with the module: an in-memory sturdyc
// client (NewCacheService) for single-process deployments, and a Redis
// client (NewRedisCacheService) for deployments that want the cache to
// survive restarts or be shared with sidecars.
//
// # Key structure
//
// Keys have the shape
//
//	namespace::operation::arg1::arg2...
//
// where namespace identifies the entity type (e.g. "bank_accounts") and
// operation the service method ("get", "list", "search"). The
// namespace::operation prefix is load-bearing: write operations invalidate
// whole segments by prefix, so serializers must keep it intact. Argument
// segments are deterministic (sorted map keys, exported struct fields) and
// oversized segments are replaced by an xxhash digest.
//
// # Unavailability
//
// A backend that cannot be reached reports ErrUnavailable. The versioned
// service treats that as a miss and reads the store directly; the cache is
// never a correctness dependency.
package cache
