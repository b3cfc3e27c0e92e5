package store

import "errors"

// Shared error taxonomy. Adapters and the versioned service wrap these
// sentinels with fmt.Errorf("%w: ...") so callers discriminate with
// errors.Is. "Does not exist", "exists but your view was stale", and "your
// input was invalid" need different remediation and are never collapsed.
var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("store: record not found")

	// ErrConflict is returned when a create violates a uniqueness constraint.
	ErrConflict = errors.New("store: uniqueness constraint violated")

	// ErrStaleWrite is returned when an update supplies a version that no
	// longer matches the stored record. The caller must re-read and retry;
	// the service never retries or merges around a detected conflict.
	ErrStaleWrite = errors.New("store: stale write, record was modified")

	// ErrValidation is returned for missing required fields or malformed
	// values, detected before any store call.
	ErrValidation = errors.New("store: invalid record")

	// ErrTimeout is returned when a store operation exceeds the caller's
	// deadline.
	ErrTimeout = errors.New("store: operation deadline exceeded")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("store: backend unavailable")
)
