package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// journeyDataKey is the single namespaced record holding all journey state.
const journeyDataKey = "journey:data"

// Store owns the persisted JourneyData blob. All reads and writes go
// through it as whole-blob replacements; callers read-modify-write the
// full structure, which makes the store the sole serialization point.
type Store struct {
	kv KV
}

// NewStore creates a Store over the given substrate.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Get loads the persisted journey state. When nothing has been persisted
// yet it returns an empty-bucketed default, never nil.
func (s *Store) Get(ctx context.Context) (*JourneyData, error) {
	raw, ok, err := s.kv.Get(ctx, journeyDataKey)
	if err != nil {
		return nil, fmt.Errorf("load journey data: %w", err)
	}
	if !ok {
		return NewJourneyData(), nil
	}

	var data JourneyData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode journey data: %w", err)
	}
	data.normalize()
	return &data, nil
}

// Put replaces the persisted journey state wholesale.
func (s *Store) Put(ctx context.Context, data *JourneyData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode journey data: %w", err)
	}
	if err := s.kv.Set(ctx, journeyDataKey, raw); err != nil {
		return fmt.Errorf("store journey data: %w", err)
	}
	return nil
}

// Clear removes all persisted journey data.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, journeyDataKey); err != nil {
		return fmt.Errorf("clear journey data: %w", err)
	}
	return nil
}

// Close releases the underlying substrate.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Open opens (creating if needed) the SQLite database at dbPath, runs
// migrations, and returns a ready-to-use Store plus the underlying
// *sql.DB for the caller to close.
func Open(dbPath string) (*Store, *sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	kv, err := NewSQLiteKV(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return NewStore(kv), db, nil
}
