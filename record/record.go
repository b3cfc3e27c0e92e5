package record

import "time"

// InitialVersion is the version assigned to a freshly created record.
// Every accepted write increments the version by exactly one.
const InitialVersion int64 = 0

// Metadata carries the persistence bookkeeping shared by every entity type:
// a store-assigned identifier, the optimistic-concurrency version counter,
// and the lifecycle timestamps. Embed it (by pointer receiver methods) in
// entity structs:
//
//	type Account struct {
//		bun.BaseModel `bun:"table:accounts"`
//		record.Metadata
//
//		Number string `bun:"number,unique"`
//	}
type Metadata struct {
	ID        string    `bun:"id,pk" json:"id"`
	Version   int64     `bun:"version,notnull" json:"version"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// Record is the constraint satisfied by any entity that embeds Metadata.
type Record interface {
	RecordID() string
	RecordVersion() int64
	RecordMeta() *Metadata
}

// RecordID returns the record identifier.
func (m *Metadata) RecordID() string { return m.ID }

// RecordVersion returns the current optimistic-concurrency version.
func (m *Metadata) RecordVersion() int64 { return m.Version }

// RecordMeta exposes the metadata for store adapters that need to stamp it.
func (m *Metadata) RecordMeta() *Metadata { return m }

// StampCreate initializes the metadata for a new record. CreatedAt and
// UpdatedAt start equal; the version starts at InitialVersion.
func (m *Metadata) StampCreate(id string, now time.Time) {
	m.ID = id
	m.Version = InitialVersion
	m.CreatedAt = now
	m.UpdatedAt = now
}

// StampUpdate advances the version by one and refreshes the modification
// timestamp. CreatedAt is never touched after StampCreate.
func (m *Metadata) StampUpdate(now time.Time) {
	m.Version++
	m.UpdatedAt = now
}
