package testsupport

import (
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	data := LoadFixture(t, FixturePath("sample.json"))
	if len(data) == 0 {
		t.Fatal("expected fixture content")
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	var payload struct {
		Name  string   `json:"name"`
		Tags  []string `json:"tags"`
		Count int      `json:"count"`
	}
	LoadFixtureJSON(t, FixturePath("sample.json"), &payload)

	if payload.Name != "sample" {
		t.Errorf("expected name sample, got %q", payload.Name)
	}
	if len(payload.Tags) != 2 || payload.Count != 3 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestFixturePath(t *testing.T) {
	want := filepath.Join("testdata", "accounts.json")
	if got := FixturePath("accounts.json"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
