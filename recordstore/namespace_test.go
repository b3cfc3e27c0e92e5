package recordstore

import (
	"testing"

	"github.com/goliatone/go-record-store/cache"
)

type BankAccount struct{}
type httpServer struct{}

func TestNamespaceFor(t *testing.T) {
	if got := namespaceFor[*TestUser](); got != "test_users" {
		t.Errorf("expected test_users, got %q", got)
	}
	if got := namespaceFor[BankAccount](); got != "bank_accounts" {
		t.Errorf("expected bank_accounts, got %q", got)
	}
	if got := namespaceFor[*httpServer](); got != "http_servers" {
		t.Errorf("expected http_servers, got %q", got)
	}
}

func TestToSnake(t *testing.T) {
	cases := []struct{ in, want string }{
		{"BankAccount", "bank_account"},
		{"ID", "id"},
		{"UserID", "user_id"},
		{"HTTPServer", "http_server"},
		{"already_snake", "already_snake"},
		{"With-Dash", "with_dash"},
		{"V2Config", "v2_config"},
	}
	for _, c := range cases {
		if got := toSnake(c.in); got != c.want {
			t.Errorf("toSnake(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConfigNamespaceOverride(t *testing.T) {
	svc := New[*TestUser](newMemAdapter(), newFakeCache(), cache.NewDefaultKeySerializer(), Config{Namespace: "people"})
	if svc.Namespace() != "people" {
		t.Errorf("expected people, got %q", svc.Namespace())
	}
}
