// Package store defines the durable-storage contract consumed by the
// versioned service: a CRUD adapter keyed by identifier plus a filtered,
// paginated query, the shared pagination shapes, and the error taxonomy
// every layer speaks.
package store

import (
	"context"

	"github.com/goliatone/go-record-store/record"
)

// Adapter is the sole external collaborator of the versioned service. It is
// assumed to sit on a backing store that supports atomic single-row
// read/write with a comparable version check.
//
// All methods honor ctx cancellation and map failures onto the package
// sentinels: ErrNotFound, ErrConflict, ErrStaleWrite, ErrTimeout,
// ErrUnavailable.
type Adapter[T record.Record] interface {
	// Create persists a new record, assigning identifier, initial version,
	// and timestamps. Returns ErrConflict on a uniqueness violation.
	Create(ctx context.Context, rec T) (T, error)

	// GetByID loads one record, or ErrNotFound.
	GetByID(ctx context.Context, id string) (T, error)

	// UpdateIfVersionMatches writes rec only when the stored version still
	// equals expectedVersion at the moment of write, bumping the version and
	// the modification timestamp. Returns ErrStaleWrite on a version
	// mismatch and ErrNotFound when the id does not exist. Two concurrent
	// writers race here; exactly one wins.
	UpdateIfVersionMatches(ctx context.Context, id string, expectedVersion int64, rec T) (T, error)

	// Delete removes the record, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a record with the id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Query returns one page of records matching the request's filters,
	// ordered by the request's sort key ascending with ties broken by id
	// ascending, plus the total count of matching records.
	Query(ctx context.Context, req PageRequest) ([]T, int, error)
}
