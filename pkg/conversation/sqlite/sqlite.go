// Package sqlite provides a durable conversation store backed by SQLite.
//
// It is the substitution point for the default in-memory store when
// conversation state must survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zubale/querybot/pkg/conversation"
)

// Store implements conversation.Store using SQLite as the storage backend.
type Store struct {
	db    *sql.DB
	locks *conversation.KeyedLock
}

// NewStore creates a new SQLite-backed conversation store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:    db,
		locks: conversation.NewKeyedLock(),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Acquire locks the given conversation id for the duration of a turn.
// Serialization is per-process; a shared database file still needs a single
// writer process.
func (s *Store) Acquire(id string) func() {
	return s.locks.Acquire(id)
}

// Load returns the state for the given id.
func (s *Store) Load(ctx context.Context, id string) (*conversation.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM conversations WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, conversation.NotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying conversation: %w", err)
	}

	var state conversation.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("unmarshaling conversation state: %w", err)
	}

	return &state, nil
}

// Save persists the given state, replacing any previous state for its id.
func (s *Store) Save(ctx context.Context, state *conversation.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling conversation state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`, state.ID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
