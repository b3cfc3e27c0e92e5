// Package di wires the shared caching components and provides factory
// functions for per-entity services. Since Go methods cannot carry type
// parameters, the generic factories are package-level functions taking the
// container as their first argument.
package di

import (
	"github.com/goliatone/go-record-store/cache"
	"github.com/goliatone/go-record-store/record"
	"github.com/goliatone/go-record-store/recordstore"
	"github.com/goliatone/go-record-store/store"
)

// Container holds the singleton cache service and key serializer shared by
// every entity type's service.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
}

// NewContainer builds a container with the in-memory cache backend.
func NewContainer(cfg cache.Config) (*Container, error) {
	cacheService, err := cache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
	}, nil
}

// NewContainerWithDefaults builds a container with default in-memory cache
// settings.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultConfig())
}

// NewRedisContainer builds a container with the Redis cache backend.
func NewRedisContainer(cfg cache.RedisConfig) (*Container, error) {
	cacheService, err := cache.NewRedisCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
	}, nil
}

// CacheService returns the shared cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the shared key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// NewService builds a versioned service for one entity type over the given
// adapter, sharing the container's cache and serializer.
//
//	svc := di.NewService(container, adapter, recordstore.Config{})
func NewService[T record.Record](c *Container, adapter store.Adapter[T], cfg recordstore.Config) *recordstore.Service[T] {
	return recordstore.New(adapter, c.cacheService, c.keySerializer, cfg)
}
