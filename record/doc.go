// Package record defines the persisted unit shared by every entity type: an
// embeddable Metadata struct carrying identifier, optimistic-concurrency
// version, and lifecycle timestamps, plus the Optional presence wrapper that
// partial updates are built from.
package record
