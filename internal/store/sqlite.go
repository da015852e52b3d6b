package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStore implements ScalarStore over the kv_store table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed scalar store.
// The db parameter should be an open SQLite connection with the
// kv_store table already bootstrapped.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetValue retrieves the raw value for a key.
func (s *SQLiteStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_store WHERE key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying kv_store: %w", err)
	}
	return value, true, nil
}

// SetValue writes the raw value for a key, creating or replacing it.
func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upserting kv_store: %w", err)
	}
	return nil
}

// DeleteValue removes a key. Deleting a missing key is a no-op.
func (s *SQLiteStore) DeleteValue(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = ?`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("deleting from kv_store: %w", err)
	}
	return nil
}
