// Package bunstore implements store.Adapter on a relational database
// through uptrace/bun. It targets SQLite and Postgres: identifier
// assignment, version-checked updates, and uniqueness-violation mapping all
// happen here so the versioned service stays storage-agnostic.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-record-store/record"
	"github.com/goliatone/go-record-store/store"
)

// Config describes one entity type's relational surface.
type Config struct {
	// Columns lists the filterable and sortable column names. "id",
	// "version", "created_at", and "updated_at" are always allowed.
	// Requests naming any other column fail with store.ErrValidation
	// before touching the database.
	Columns []string
}

// Store is a store.Adapter backed by one relational table per entity type.
type Store[T record.Record] struct {
	db        *bun.DB
	newRecord func() T
	columns   map[string]bool
}

// New builds a Store for one entity type. newRecord must return a fresh,
// addressable instance (typically func() *Account { return &Account{} }).
func New[T record.Record](db *bun.DB, newRecord func() T, cfg Config) *Store[T] {
	columns := map[string]bool{
		"id":         true,
		"version":    true,
		"created_at": true,
		"updated_at": true,
	}
	for _, c := range cfg.Columns {
		columns[c] = true
	}
	return &Store[T]{db: db, newRecord: newRecord, columns: columns}
}

// CreateTable creates the entity's table when it does not exist. Intended
// for tests and examples; production schemas are managed elsewhere.
func (s *Store[T]) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model(s.newRecord()).IfNotExists().Exec(ctx)
	return mapError(err)
}

// Create persists rec, assigning a UUID when the caller did not supply an
// identifier, stamping the initial version and equal create/update
// timestamps.
func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	meta := rec.RecordMeta()
	id := meta.ID
	if id == "" {
		id = uuid.NewString()
	}
	meta.StampCreate(id, time.Now().UTC())

	if _, err := s.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return zero, mapError(err)
	}
	return rec, nil
}

// GetByID loads one record or reports store.ErrNotFound.
func (s *Store[T]) GetByID(ctx context.Context, id string) (T, error) {
	rec := s.newRecord()
	err := s.db.NewSelect().Model(rec).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%w: id %q", store.ErrNotFound, id)
		}
		return zero, mapError(err)
	}
	return rec, nil
}

// UpdateIfVersionMatches writes rec behind a version predicate: the UPDATE
// only matches when the stored version still equals expectedVersion, which
// is the single concurrency-control mechanism in the design. The stored
// created_at is never touched.
func (s *Store[T]) UpdateIfVersionMatches(ctx context.Context, id string, expectedVersion int64, rec T) (T, error) {
	var zero T
	meta := rec.RecordMeta()
	meta.ID = id
	meta.Version = expectedVersion
	meta.StampUpdate(time.Now().UTC())

	res, err := s.db.NewUpdate().
		Model(rec).
		ExcludeColumn("created_at").
		Where("id = ? AND version = ?", id, expectedVersion).
		Exec(ctx)
	if err != nil {
		return zero, mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return zero, mapError(err)
	}
	if affected == 0 {
		exists, err := s.Exists(ctx, id)
		if err != nil {
			return zero, err
		}
		if !exists {
			return zero, fmt.Errorf("%w: id %q", store.ErrNotFound, id)
		}
		return zero, fmt.Errorf("%w: id %q expected version %d", store.ErrStaleWrite, id, expectedVersion)
	}

	// Re-read so the caller gets the stored row, created_at included.
	return s.GetByID(ctx, id)
}

// Delete removes the record or reports store.ErrNotFound.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().Model(s.newRecord()).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %q", store.ErrNotFound, id)
	}
	return nil
}

// Exists reports whether a record with the id is stored.
func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	exists, err := s.db.NewSelect().Model(s.newRecord()).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

// Query returns one page of records matching the request's filters plus the
// total matching count. Ordering is the request's sort key ascending with
// ties broken by id ascending, so identical requests against unchanged data
// return identical sequences.
func (s *Store[T]) Query(ctx context.Context, req store.PageRequest) ([]T, int, error) {
	req = req.Normalize()

	var recs []T
	q := s.db.NewSelect().Model(&recs)

	for _, f := range req.Filters {
		if !s.columns[f.Field] {
			return nil, 0, fmt.Errorf("%w: unknown filter field %q", store.ErrValidation, f.Field)
		}
		switch f.Op {
		case store.OpEq:
			q = q.Where("? = ?", bun.Ident(f.Field), f.Value)
		case store.OpNe:
			q = q.Where("? != ?", bun.Ident(f.Field), f.Value)
		case store.OpGt:
			q = q.Where("? > ?", bun.Ident(f.Field), f.Value)
		case store.OpGte:
			q = q.Where("? >= ?", bun.Ident(f.Field), f.Value)
		case store.OpLt:
			q = q.Where("? < ?", bun.Ident(f.Field), f.Value)
		case store.OpLte:
			q = q.Where("? <= ?", bun.Ident(f.Field), f.Value)
		case store.OpContains:
			q = q.Where("? LIKE ?", bun.Ident(f.Field), "%"+fmt.Sprint(f.Value)+"%")
		default:
			return nil, 0, fmt.Errorf("%w: unknown filter op %q", store.ErrValidation, f.Op)
		}
	}

	if !s.columns[req.SortKey] {
		return nil, 0, fmt.Errorf("%w: unknown sort key %q", store.ErrValidation, req.SortKey)
	}
	q = q.OrderExpr("? ASC", bun.Ident(req.SortKey))
	if req.SortKey != "id" {
		q = q.OrderExpr("id ASC")
	}

	total, err := q.Limit(req.PageSize).Offset(req.Page * req.PageSize).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, mapError(err)
	}
	return recs, total, nil
}

// mapError translates driver failures into the shared taxonomy. Uniqueness
// violations become store.ErrConflict, deadline expiry store.ErrTimeout,
// and connection-level failures store.ErrUnavailable; anything else
// propagates unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: %v", store.ErrConflict, err)
		}
		if pqErr.Code.Class() == "08" { // connection exceptions
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %v", store.ErrConflict, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}
