// Package cache provides caching decorators for storage ports.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/artpar/themedesigner/ports"
)

const defaultSize = 1024

type entryKey struct {
	recordID string
	key      string
}

// MetaStore is a read-through LRU cache in front of a ports.MetaStore.
// Writes go to the store first and then update the cache, so the cache only
// stays coherent while this process is the sole writer.
type MetaStore struct {
	store ports.MetaStore
	cache *lru.Cache[entryKey, string]
}

// NewMetaStore wraps store with an LRU cache holding up to size values.
func NewMetaStore(store ports.MetaStore, size int) (*MetaStore, error) {
	if size <= 0 {
		size = defaultSize
	}
	c, err := lru.New[entryKey, string](size)
	if err != nil {
		return nil, err
	}
	return &MetaStore{store: store, cache: c}, nil
}

// Get returns the cached value or loads it from the store.
func (s *MetaStore) Get(ctx context.Context, recordID, key string) (string, error) {
	k := entryKey{recordID, key}
	if v, ok := s.cache.Get(k); ok {
		return v, nil
	}

	v, err := s.store.Get(ctx, recordID, key)
	if err != nil {
		return "", err
	}
	s.cache.Add(k, v)
	return v, nil
}

// Set writes through to the store.
func (s *MetaStore) Set(ctx context.Context, recordID, key, value string) error {
	k := entryKey{recordID, key}
	if err := s.store.Set(ctx, recordID, key, value); err != nil {
		s.cache.Remove(k)
		return err
	}
	s.cache.Add(k, value)
	return nil
}

// Delete removes the value from the store and caches its absence.
func (s *MetaStore) Delete(ctx context.Context, recordID, key string) error {
	k := entryKey{recordID, key}
	if err := s.store.Delete(ctx, recordID, key); err != nil {
		s.cache.Remove(k)
		return err
	}
	s.cache.Add(k, "")
	return nil
}

// List always reads from the store.
func (s *MetaStore) List(ctx context.Context, recordID string) (map[string]string, error) {
	return s.store.List(ctx, recordID)
}

// Len returns the number of cached values.
func (s *MetaStore) Len() int {
	return s.cache.Len()
}

var _ ports.MetaStore = (*MetaStore)(nil)
