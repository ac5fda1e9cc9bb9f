// Package memory provides in-memory implementations for testing.
package memory

import (
	"context"
	"sync"

	"github.com/artpar/themedesigner/ports"
)

type metaKey struct {
	recordID string
	key      string
}

// MetaStore is an in-memory implementation of ports.MetaStore.
// It counts calls so tests can assert how many writes a save performed.
type MetaStore struct {
	mu      sync.RWMutex
	values  map[metaKey]string
	gets    int
	sets    int
	deletes int
}

// NewMetaStore creates a new in-memory meta store.
func NewMetaStore() *MetaStore {
	return &MetaStore{
		values: make(map[metaKey]string),
	}
}

// Get returns the stored value or "".
func (s *MetaStore) Get(ctx context.Context, recordID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	return s.values[metaKey{recordID, key}], nil
}

// Set stores a value.
func (s *MetaStore) Set(ctx context.Context, recordID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets++
	s.values[metaKey{recordID, key}] = value
	return nil
}

// Delete removes a value.
func (s *MetaStore) Delete(ctx context.Context, recordID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes++
	delete(s.values, metaKey{recordID, key})
	return nil
}

// List returns all values stored for a record.
func (s *MetaStore) List(ctx context.Context, recordID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string)
	for k, v := range s.values {
		if k.recordID == recordID {
			result[k.key] = v
		}
	}
	return result, nil
}

// Has reports whether an entry exists, distinguishing "" from absent.
func (s *MetaStore) Has(recordID, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[metaKey{recordID, key}]
	return ok
}

// Writes returns the number of Set and Delete calls.
func (s *MetaStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets + s.deletes
}

// Counts returns the number of Get, Set and Delete calls.
func (s *MetaStore) Counts() (gets, sets, deletes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets, s.sets, s.deletes
}

// Ensure interface compliance.
var _ ports.MetaStore = (*MetaStore)(nil)
