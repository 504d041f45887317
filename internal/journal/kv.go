package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// KV is the persistence substrate: a durable string-to-blob map. Values
// are opaque JSON; callers own serialization.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// SQLiteKV implements KV backed by a single SQLite table.
type SQLiteKV struct {
	db *sql.DB

	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	removeStmt *sql.Stmt
}

// NewSQLiteKV creates a SQLiteKV from an already-opened and migrated
// database.
func NewSQLiteKV(db *sql.DB) (*SQLiteKV, error) {
	s := &SQLiteKV{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteKV) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`SELECT value FROM journey_kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.setStmt, err = s.db.Prepare(`
		INSERT INTO journey_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.removeStmt, err = s.db.Prepare(`DELETE FROM journey_kv WHERE key = ?`)
	if err != nil {
		return err
	}

	return nil
}

// Get returns the stored value for key, a flag reporting whether the key
// existed, and any error.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value wholesale.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.setStmt.ExecContext(ctx, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *SQLiteKV) Remove(ctx context.Context, key string) error {
	if _, err := s.removeStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Close releases the prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteKV) Close() error {
	for _, stmt := range []*sql.Stmt{s.getStmt, s.setStmt, s.removeStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
