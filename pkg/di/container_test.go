package di

import (
	"testing"

	"github.com/goliatone/go-record-store/cache"
)

func TestNewContainerWithDefaults(t *testing.T) {
	c, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults failed: %v", err)
	}
	if c.CacheService() == nil {
		t.Error("expected cache service")
	}
	if c.KeySerializer() == nil {
		t.Error("expected key serializer")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewContainer(cache.Config{}); err == nil {
		t.Error("expected error for zero config")
	}
}

func TestNewRedisContainerRejectsInvalidConfig(t *testing.T) {
	if _, err := NewRedisContainer(cache.RedisConfig{}); err == nil {
		t.Error("expected error for missing address")
	}
}
