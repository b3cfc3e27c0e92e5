package record

import (
	"bytes"
	"encoding/json"
)

// Optional wraps a value with a presence flag so callers can distinguish a
// field that was omitted from one explicitly set to its zero value. Patch
// types are built from Optional fields: only set fields overwrite the target
// record, which is what makes clearing an optional field reachable at all.
//
// In JSON, an absent key leaves the Optional unset, while an explicit null
// marks it set with the zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{value: v, set: true} }

// None returns an unset Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// IsSet reports whether a value was explicitly provided.
func (o Optional[T]) IsSet() bool { return o.set }

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// ValueOr returns the wrapped value, or fallback when unset.
func (o Optional[T]) ValueOr(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Apply overwrites dst with the wrapped value when set, and leaves it
// untouched otherwise. This is the whole-field replace-if-present merge rule
// used by partial updates.
func (o Optional[T]) Apply(dst *T) {
	if o.set {
		*dst = o.value
	}
}

var jsonNull = []byte("null")

// MarshalJSON encodes the wrapped value, or null when unset.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return jsonNull, nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON marks the Optional set. A JSON null sets the zero value,
// which callers read as an explicit clear. Absent keys never reach this
// method, so they leave the Optional unset.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		var zero T
		o.value = zero
		o.set = true
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.set = true
	return nil
}
