// Package cache implements the optional cache-aside tier in front of the
// company store. The cache is strictly advisory: a present entry is a
// hint, absence or any internal error falls back to the database.
package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Store is the key/value boundary the cache service talks to. Values are
// opaque serialized payloads; every write carries its own TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store backed by a TTL cache. Entries
// expire on their own; Stop must be called to halt the eviction loop.
type MemoryStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryStore builds a MemoryStore and starts its eviction loop.
func NewMemoryStore(capacity uint64) *MemoryStore {
	c := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, []byte](),
		ttlcache.WithCapacity[string, []byte](capacity),
	)
	go c.Start()
	return &MemoryStore{cache: c}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, false, nil
	}
	return item.Value(), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Stop halts the eviction loop.
func (s *MemoryStore) Stop() {
	s.cache.Stop()
}
