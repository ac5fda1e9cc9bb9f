package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/artpar/themedesigner/domain/settings"
	"github.com/artpar/themedesigner/ports"
)

// SettingsStore implements ports.SettingsStore using PostgreSQL.
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new settings store.
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get retrieves a blob by key.
func (s *SettingsStore) Get(ctx context.Context, key string) (settings.Setting, error) {
	var setting settings.Setting
	err := s.db.Pool.QueryRow(ctx,
		`SELECT key, value, updated_at FROM `+settingsTable+` WHERE key = $1`,
		key).Scan(&setting.Key, &setting.Value, &setting.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return settings.Setting{}, ports.ErrNotFound
	}
	if err != nil {
		return settings.Setting{}, fmt.Errorf("get setting: %w", err)
	}
	setting.UpdatedAt = setting.UpdatedAt.UTC()
	return setting, nil
}

// Set stores or replaces a blob.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Pool.Exec(ctx, `
INSERT INTO `+settingsTable+` (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value,
              updated_at = EXCLUDED.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// Delete removes a blob.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM `+settingsTable+` WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	return nil
}

var _ ports.SettingsStore = (*SettingsStore)(nil)
