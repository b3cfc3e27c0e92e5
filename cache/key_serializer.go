package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// maxSegmentLen bounds one serialized argument segment. Longer segments are
// replaced by their xxhash digest so keys stay usable in external backends
// while remaining deterministic. Search predicates are the usual offender.
const maxSegmentLen = 96

// defaultKeySerializer produces deterministic keys for the argument shapes
// the versioned service uses: identifiers, page requests, and filter slices.
// Maps are serialized with sorted keys, structs by exported field, and
// anything exotic falls back to JSON.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer returns the default KeySerializer implementation.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

func (s *defaultKeySerializer) SerializeKey(namespace, operation string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, namespace, operation)
	for _, arg := range args {
		parts = append(parts, digest(s.serializeValue(arg)))
	}
	return strings.Join(parts, KeySeparator)
}

// digest keeps short segments readable and hashes the rest.
func digest(segment string) string {
	if len(segment) <= maxSegmentLen {
		return segment
	}
	return fmt.Sprintf("x%016x", xxhash.Sum64String(segment))
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = s.serializeValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"

	case reflect.Map:
		if rv.IsNil() {
			return "{}"
		}
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, s.serializeValue(iter.Key().Interface())+"="+s.serializeValue(iter.Value().Interface()))
		}
		sort.Strings(pairs)
		return "{" + strings.Join(pairs, ",") + "}"

	case reflect.Struct:
		rt := rv.Type()
		parts := make([]string, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			parts = append(parts, field.Name+":"+s.serializeValue(rv.Field(i).Interface()))
		}
		return "{" + strings.Join(parts, ",") + "}"

	case reflect.Func, reflect.Chan:
		return fmt.Sprintf("%s:%p", rv.Kind(), v)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return fmt.Sprintf("%v", v)

	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("opaque:%s", reflect.TypeOf(v))
		}
		return string(data)
	}
}
