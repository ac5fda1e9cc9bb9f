// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"

	"github.com/artpar/themedesigner/domain/settings"
)

// ErrNotFound is returned by stores when a key has no stored value.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// IDGenerator generates unique IDs.
type IDGenerator interface {
	New() string
}

// Hasher hashes and verifies secrets.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Compare(hash []byte, plaintext string) bool
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// -----------------------------------------------------------------------------
// Storage Ports
// -----------------------------------------------------------------------------

// MetaStore persists per-record field values, one entry per (record, key).
// A missing entry reads as "" with a nil error.
type MetaStore interface {
	// Get returns the stored value, or "" if none is stored.
	Get(ctx context.Context, recordID, key string) (string, error)

	// Set stores or replaces a value.
	Set(ctx context.Context, recordID, key, value string) error

	// Delete removes a value. Deleting a missing entry is not an error.
	Delete(ctx context.Context, recordID, key string) error

	// List returns every stored value of a record.
	List(ctx context.Context, recordID string) (map[string]string, error)
}

// SettingsStore persists settings blobs by option name.
type SettingsStore interface {
	// Get retrieves a blob. Returns ErrNotFound if it was never stored.
	Get(ctx context.Context, key string) (settings.Setting, error)

	// Set stores or replaces a blob in a single write.
	Set(ctx context.Context, key, value string) error

	// Delete removes a blob.
	Delete(ctx context.Context, key string) error
}
