package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artpar/themedesigner/domain/settings"
	"github.com/artpar/themedesigner/ports"
)

// SettingsStore implements ports.SettingsStore using SQLite.
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new settings store.
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get retrieves a single blob by key.
func (s *SettingsStore) Get(ctx context.Context, key string) (settings.Setting, error) {
	var setting settings.Setting
	var updatedAt time.Time

	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = ?`,
		key,
	).Scan(&setting.Key, &setting.Value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Setting{}, ports.ErrNotFound
	}
	if err != nil {
		return settings.Setting{}, err
	}

	setting.UpdatedAt = updatedAt.UTC()
	return setting, nil
}

// Set stores or replaces a blob.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	return err
}

// Delete removes a blob.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM settings WHERE key = ?`,
		key,
	)
	return err
}

// Ensure interface compliance.
var _ ports.SettingsStore = (*SettingsStore)(nil)
