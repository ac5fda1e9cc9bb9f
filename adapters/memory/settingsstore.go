package memory

import (
	"context"
	"sync"
	"time"

	"github.com/artpar/themedesigner/domain/settings"
	"github.com/artpar/themedesigner/ports"
)

// SettingsStore is an in-memory implementation of ports.SettingsStore.
type SettingsStore struct {
	mu    sync.RWMutex
	blobs map[string]settings.Setting
}

// NewSettingsStore creates a new in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		blobs: make(map[string]settings.Setting),
	}
}

// Get retrieves a blob by key.
func (s *SettingsStore) Get(ctx context.Context, key string) (settings.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[key]
	if !ok {
		return settings.Setting{}, ports.ErrNotFound
	}
	return b, nil
}

// Set stores or replaces a blob.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = settings.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

// Delete removes a blob.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Ping always succeeds.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return nil
}

// Ensure interface compliance.
var (
	_ ports.SettingsStore = (*SettingsStore)(nil)
	_ ports.Pinger        = (*SettingsStore)(nil)
)
