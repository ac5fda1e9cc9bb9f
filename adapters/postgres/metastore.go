package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/artpar/themedesigner/ports"
)

// MetaStore implements ports.MetaStore using PostgreSQL.
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
	err := s.db.Pool.QueryRow(ctx, `
SELECT meta_value FROM `+recordMetaTable+`
WHERE record_id = $1 AND meta_key = $2
`, recordID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get record meta: %w", err)
	}
	return value, nil
}

// Set stores or replaces a value.
func (s *MetaStore) Set(ctx context.Context, recordID, key, value string) error {
	_, err := s.db.Pool.Exec(ctx, `
INSERT INTO `+recordMetaTable+` (record_id, meta_key, meta_value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (record_id, meta_key)
DO UPDATE SET meta_value = EXCLUDED.meta_value,
              updated_at = EXCLUDED.updated_at
`, recordID, key, value)
	if err != nil {
		return fmt.Errorf("set record meta: %w", err)
	}
	return nil
}

// Delete removes a value.
func (s *MetaStore) Delete(ctx context.Context, recordID, key string) error {
	_, err := s.db.Pool.Exec(ctx,
		`DELETE FROM `+recordMetaTable+` WHERE record_id = $1 AND meta_key = $2`,
		recordID, key)
	if err != nil {
		return fmt.Errorf("delete record meta: %w", err)
	}
	return nil
}

// List returns every value stored for a record.
func (s *MetaStore) List(ctx context.Context, recordID string) (map[string]string, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT meta_key, meta_value FROM `+recordMetaTable+` WHERE record_id = $1`,
		recordID)
	if err != nil {
		return nil, fmt.Errorf("list record meta: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan record meta: %w", err)
		}
		result[key] = value
	}
	return result, rows.Err()
}

var _ ports.MetaStore = (*MetaStore)(nil)
