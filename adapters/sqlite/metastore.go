package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/themedesigner/ports"
)

// MetaStore implements ports.MetaStore using SQLite.
type MetaStore struct {
	db *DB
}

// NewMetaStore creates a new record meta store.
func NewMetaStore(db *DB) *MetaStore {
	return &MetaStore{db: db}
}

// Get returns the stored value, or "" when the record has none.
func (s *MetaStore) Get(ctx context.Context, recordID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT meta_value FROM record_meta WHERE record_id = ? AND meta_key = ?`,
		recordID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores or replaces a value.
func (s *MetaStore) Set(ctx context.Context, recordID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO record_meta (record_id, meta_key, meta_value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(record_id, meta_key) DO UPDATE SET
			meta_value = excluded.meta_value,
			updated_at = CURRENT_TIMESTAMP`,
		recordID, key, value,
	)
	return err
}

// Delete removes a value.
func (s *MetaStore) Delete(ctx context.Context, recordID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM record_meta WHERE record_id = ? AND meta_key = ?`,
		recordID, key,
	)
	return err
}

// List returns every value stored for a record.
func (s *MetaStore) List(ctx context.Context, recordID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT meta_key, meta_value FROM record_meta WHERE record_id = ?`,
		recordID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, rows.Err()
}

// Ensure interface compliance.
var _ ports.MetaStore = (*MetaStore)(nil)
