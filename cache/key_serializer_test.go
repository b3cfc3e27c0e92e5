package cache

import (
	"strings"
	"testing"
)

func TestSerializeKeyDeterministic(t *testing.T) {
	s := NewDefaultKeySerializer()

	type req struct {
		Page     int
		PageSize int
		SortKey  string
	}

	a := s.SerializeKey("users", "list", req{Page: 1, PageSize: 10, SortKey: "id"})
	b := s.SerializeKey("users", "list", req{Page: 1, PageSize: 10, SortKey: "id"})
	if a != b {
		t.Errorf("identical args produced different keys:\n%s\n%s", a, b)
	}

	c := s.SerializeKey("users", "list", req{Page: 2, PageSize: 10, SortKey: "id"})
	if a == c {
		t.Error("different args produced the same key")
	}
}

func TestSerializeKeyPrefix(t *testing.T) {
	s := NewDefaultKeySerializer()

	prefix := s.SerializeKey("users", "list")
	key := s.SerializeKey("users", "list", 1, 10)

	if !strings.HasPrefix(key, prefix) {
		t.Errorf("key %q does not extend segment prefix %q", key, prefix)
	}
	if strings.HasPrefix(s.SerializeKey("users", "get", "id-1"), prefix+KeySeparator) {
		t.Error("different operation must not share the segment prefix")
	}
}

func TestSerializeKeyMapOrderIndependent(t *testing.T) {
	s := NewDefaultKeySerializer()

	// Maps iterate in random order; the serializer must sort pairs.
	m := map[string]int{"alpha": 1, "beta": 2, "gamma": 3}
	first := s.SerializeKey("ns", "op", m)
	for i := 0; i < 20; i++ {
		if got := s.SerializeKey("ns", "op", m); got != first {
			t.Fatalf("map serialization unstable: %q vs %q", got, first)
		}
	}
}

func TestSerializeKeyArgumentShapes(t *testing.T) {
	s := NewDefaultKeySerializer()

	cases := []struct {
		name string
		args []any
	}{
		{"nil", []any{nil}},
		{"string id", []any{"id-42"}},
		{"ints and bools", []any{7, true}},
		{"slice", []any{[]string{"a", "b"}}},
		{"empty slice", []any{[]string{}}},
		{"struct pointer", []any{&struct{ Name string }{Name: "Ada"}}},
	}
	seen := map[string]string{}
	for _, tc := range cases {
		key := s.SerializeKey("ns", "op", tc.args...)
		if key == "" {
			t.Errorf("%s: empty key", tc.name)
		}
		if prev, ok := seen[key]; ok {
			t.Errorf("%s collides with %s: %q", tc.name, prev, key)
		}
		seen[key] = tc.name
	}
}

func TestSerializeKeyLongSegmentHashed(t *testing.T) {
	s := NewDefaultKeySerializer()

	long := strings.Repeat("f", 500)
	a := s.SerializeKey("ns", "op", long)
	b := s.SerializeKey("ns", "op", long)
	if a != b {
		t.Error("hashed segment not stable")
	}

	segments := strings.Split(a, KeySeparator)
	last := segments[len(segments)-1]
	if len(last) > 96 {
		t.Errorf("oversized segment not hashed, len %d", len(last))
	}
	if last == long[:len(last)] {
		t.Error("oversized segment was truncated instead of hashed")
	}

	if s.SerializeKey("ns", "op", strings.Repeat("g", 500)) == a {
		t.Error("different long segments collided")
	}
}
