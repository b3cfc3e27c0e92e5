// Package recordstore implements the cache-consistent, optimistically
// versioned record service that sits between callers and a store.Adapter.
//
// # Overview
//
// One Service[T] instance serves one entity type. Reads (GetByID, List,
// Search) consult the cache first and fall through to the store on a miss,
// populating the cache only after a complete, successful load. Writes
// (Create, Update, Patch, Delete) go to the store first; on success the
// affected cache entries are invalidated before the call returns, so no
// caller can observe a cache hit that predates its own write.
//
// # Optimistic concurrency
//
// Update requires the version the caller last read. Two concurrent writes
// to the same record race at the adapter's version check: exactly one wins,
// the other receives store.ErrStaleWrite and must re-read and reapply. The
// service never retries or merges around a detected conflict.
//
// Patch reads the current record, merges the sparse patch (absent fields
// are left untouched; see Patcher), and performs a version-checked write
// with the version it just read. A record that changed in between surfaces
// as store.ErrStaleWrite.
//
// # Invalidation policy
//
// Every write invalidates the record's id-keyed entry plus the entity's
// entire list and search segments. Narrower invalidation would require
// knowing which pages and predicates a write affected; the conservative
// policy trades some cache churn for a simple correctness argument.
//
// One window remains: a read whose store fetch is in flight when a write
// commits may repopulate the cache with the pre-write row after the write's
// invalidation ran, so a later read can briefly observe the superseded
// value. The version check on writes is the sole concurrency control; reads
// hold no lock against concurrent invalidation. Writers are protected
// regardless: a stale cached read feeds a stale expectedVersion, which the
// store rejects.
//
// # Degradation
//
// A cache backend reporting cache.ErrUnavailable downgrades reads to direct
// store access. Requests never fail because the cache is down.
//
// # Per-entity wiring
//
//	svc := recordstore.New(adapter, cacheService, serializer, recordstore.Config{})
//	account, err := svc.GetByID(ctx, id)
//
// Construct one Service per entity type; the pkg/di container bundles the
// shared cache and serializer.
package recordstore
