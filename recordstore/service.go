package recordstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-record-store/cache"
	"github.com/goliatone/go-record-store/record"
	"github.com/goliatone/go-record-store/store"
)

// Cache key operation segments. Writes invalidate the list and search
// segments wholesale; narrowing which pages a write affected is not worth
// the bookkeeping.
const (
	opGet    = "get"
	opList   = "list"
	opSearch = "search"
)

// Config tunes one Service instance.
type Config struct {
	// Namespace prefixes every cache key the service emits. Derived from
	// the entity type name when empty ("BankAccount" -> "bank_accounts").
	Namespace string

	// DefaultPageSize and MaxPageSize bound List and Search requests.
	// Zero values fall back to the store package defaults (20 and 100).
	DefaultPageSize int
	MaxPageSize     int

	// Logger records cache degradation and invalidation failures. Nil
	// means no logging.
	Logger *zerolog.Logger
}

// Service layers read-through caching, write-then-invalidate, optimistic
// concurrency enforcement, and partial-update merging over a store.Adapter.
// One Service instance serves one entity type; instances share nothing, so
// entity types stay fully independent.
type Service[T record.Record] struct {
	adapter   store.Adapter[T]
	cache     cache.CacheService
	keys      cache.KeySerializer
	namespace string

	defaultPageSize int
	maxPageSize     int
	logger          zerolog.Logger

	// tracked remembers every cache key this service has written, so
	// segment invalidation works even on backends that cannot scan keys.
	tracked *xsync.MapOf[string, struct{}]
}

// New builds a Service for one entity type.
func New[T record.Record](adapter store.Adapter[T], cacheService cache.CacheService, keys cache.KeySerializer, cfg Config) *Service[T] {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = namespaceFor[T]()
	}
	defaultPageSize := cfg.DefaultPageSize
	if defaultPageSize <= 0 {
		defaultPageSize = store.DefaultPageSize
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = store.MaxPageSize
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Service[T]{
		adapter:         adapter,
		cache:           cacheService,
		keys:            keys,
		namespace:       namespace,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
		tracked:         xsync.NewMapOf[string, struct{}](),
	}
}

// Namespace returns the cache namespace the service writes under.
func (s *Service[T]) Namespace() string { return s.namespace }

// Create validates and persists a new record. The adapter assigns id,
// initial version, and timestamps. List and search caches are invalidated
// before returning; no id-keyed entry can exist for a record that was just
// born.
func (s *Service[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := validateRecord(rec); err != nil {
		return zero, err
	}
	created, err := s.adapter.Create(ctx, rec)
	if err != nil {
		return zero, err
	}
	s.invalidateQuerySegments(ctx)
	return created, nil
}

// GetByID returns the record, serving repeated reads from cache. A miss
// loads from the store and populates the cache only after a complete,
// successful read.
func (s *Service[T]) GetByID(ctx context.Context, id string) (T, error) {
	key := s.keys.SerializeKey(s.namespace, opGet, id)
	s.track(key)
	return fetchCached(ctx, s.cache, s.logger, key, func(ctx context.Context) (T, error) {
		return s.adapter.GetByID(ctx, id)
	})
}

// List returns one page of records ordered by the request's sort key. The
// normalized request is the cache key, so identical requests share an entry.
// Filters are ignored; use Search for filtered reads.
func (s *Service[T]) List(ctx context.Context, req store.PageRequest) (store.Page[T], error) {
	req.Filters = nil
	return s.queryCached(ctx, opList, req)
}

// Search returns one page of records matching the request's structural
// filters, cached under the normalized predicate.
func (s *Service[T]) Search(ctx context.Context, req store.PageRequest) (store.Page[T], error) {
	return s.queryCached(ctx, opSearch, req)
}

func (s *Service[T]) queryCached(ctx context.Context, op string, req store.PageRequest) (store.Page[T], error) {
	req = s.normalize(req)
	key := s.keys.SerializeKey(s.namespace, op, req)
	s.track(key)
	res, err := fetchCached(ctx, s.cache, s.logger, key, func(ctx context.Context) (pageResult[T], error) {
		items, total, err := s.adapter.Query(ctx, req)
		return pageResult[T]{Items: items, Total: total}, err
	})
	if err != nil {
		return store.Page[T]{}, err
	}
	return store.NewPage(res.Items, req, res.Total), nil
}

// Update replaces the record's fields, accepting the write only if
// expectedVersion still matches the stored version. On success the id entry
// and the query segments are invalidated before returning, so a caller that
// observed its own write completing can never read the superseded value.
func (s *Service[T]) Update(ctx context.Context, id string, rec T, expectedVersion int64) (T, error) {
	var zero T
	if err := validateRecord(rec); err != nil {
		return zero, err
	}
	updated, err := s.adapter.UpdateIfVersionMatches(ctx, id, expectedVersion, rec)
	if err != nil {
		return zero, err
	}
	s.invalidateRecord(ctx, id)
	s.invalidateQuerySegments(ctx)
	return updated, nil
}

// Patch loads the current record, applies the sparse patch (only fields the
// patch explicitly carries overwrite the current value), and writes the
// merged record back using the version just read. A concurrent write
// between the read and the write surfaces as store.ErrStaleWrite; retrying
// is the caller's decision, never the service's.
//
// The read goes to the adapter rather than the cache so the merge mutates a
// private copy, never a value other readers may share.
func (s *Service[T]) Patch(ctx context.Context, id string, patch Patcher[T]) (T, error) {
	var zero T
	if patch == nil {
		return zero, fmt.Errorf("%w: nil patch", store.ErrValidation)
	}
	current, err := s.adapter.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	patch.Apply(current)
	if err := validateRecord(current); err != nil {
		return zero, err
	}
	updated, err := s.adapter.UpdateIfVersionMatches(ctx, id, current.RecordVersion(), current)
	if err != nil {
		return zero, err
	}
	s.invalidateRecord(ctx, id)
	s.invalidateQuerySegments(ctx)
	return updated, nil
}

// Delete removes the record and invalidates its id entry plus the query
// segments, so a read issued after Delete returns observes store.ErrNotFound
// even if the record was cached immediately beforehand.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := s.adapter.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateRecord(ctx, id)
	s.invalidateQuerySegments(ctx)
	return nil
}

// Exists reports whether a record with the id is stored. Results are never
// cached: a cached positive would survive a delete and lie to the caller.
func (s *Service[T]) Exists(ctx context.Context, id string) (bool, error) {
	return s.adapter.Exists(ctx, id)
}

func (s *Service[T]) normalize(req store.PageRequest) store.PageRequest {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.PageSize <= 0 {
		req.PageSize = s.defaultPageSize
	}
	if req.PageSize > s.maxPageSize {
		req.PageSize = s.maxPageSize
	}
	if req.SortKey == "" {
		req.SortKey = store.DefaultSortKey
	}
	return req
}

func (s *Service[T]) track(key string) {
	s.tracked.Store(key, struct{}{})
}

func (s *Service[T]) invalidateRecord(ctx context.Context, id string) {
	key := s.keys.SerializeKey(s.namespace, opGet, id)
	s.tracked.Delete(key)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error().Str("key", key).Err(err).Msg("cache invalidation failed")
	}
}

// invalidateQuerySegments conservatively drops every cached list and search
// result for the entity type. Both the backend prefix deletion and the
// tracked-key registry run: the registry covers backends that cannot scan
// their key space.
func (s *Service[T]) invalidateQuerySegments(ctx context.Context) {
	for _, op := range []string{opList, opSearch} {
		prefix := s.keys.SerializeKey(s.namespace, op)
		var stale []string
		s.tracked.Range(func(key string, _ struct{}) bool {
			if strings.HasPrefix(key, prefix) {
				stale = append(stale, key)
			}
			return true
		})
		for _, key := range stale {
			s.tracked.Delete(key)
		}
		if err := s.cache.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.Error().Str("prefix", prefix).Err(err).Msg("cache segment invalidation failed")
		}
		if len(stale) > 0 {
			if err := s.cache.InvalidateKeys(ctx, stale); err != nil {
				s.logger.Error().Str("prefix", prefix).Err(err).Msg("cache key invalidation failed")
			}
		}
	}
}

// pageResult wraps the tuple result of Adapter.Query for caching.
type pageResult[T any] struct {
	Items []T `json:"items" msgpack:"items"`
	Total int `json:"total" msgpack:"total"`
}

// fetchCached is the read-through path. Cache unavailability degrades to a
// direct store read instead of failing the request.
func fetchCached[U any](ctx context.Context, c cache.CacheService, logger zerolog.Logger, key string, fetch cache.FetchFn[U]) (U, error) {
	value, err := cache.GetOrFetch(ctx, c, key, fetch)
	if err == nil || !errors.Is(err, cache.ErrUnavailable) {
		return value, err
	}
	logger.Warn().Str("key", key).Err(err).Msg("cache unavailable, reading from store")
	return fetch(ctx)
}

// validateRecord runs the entity's validation rules when it opts in by
// implementing ozzo's Validatable. Failures are reported before any store
// call ever happens.
func validateRecord(rec any) error {
	v, ok := rec.(validation.Validatable)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	return nil
}
