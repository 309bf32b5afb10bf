// Package progress implements the durable key-value store for in-flight
// session snapshots. Sessions of different exercise kinds use different
// keys, so they never collide.
//
// The load path is fail-safe rather than fail-stop: a stored value that
// no longer parses is treated as absent and proactively removed, so one
// corrupt entry can never wedge future sessions.
package progress

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/psyprep/psyprep/internal/session"
)

// SQLiteStore persists snapshots in a `progress` key-value table.
type SQLiteStore struct {
	db *sql.DB
}

var _ session.ProgressStore = (*SQLiteStore)(nil)

// NewSQLiteStore wraps an open database. The progress table is created
// by store.Open's schema bootstrap.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save serializes the snapshot and upserts it under key.
func (s *SQLiteStore) Save(key string, snap *session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO progress (key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Load returns the snapshot stored under key. Malformed stored data is
// deleted and reported as absent.
func (s *SQLiteStore) Load(key string) (*session.Snapshot, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM progress WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load progress: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		// Corrupt entry: discard it so future saves are unaffected.
		_ = s.Clear(key)
		return nil, false, nil
	}
	return &snap, true, nil
}

// Clear removes the entry for key. Idempotent.
func (s *SQLiteStore) Clear(key string) error {
	if _, err := s.db.Exec(`DELETE FROM progress WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// MemoryStore is a process-local ProgressStore. It backs sessions when
// no database is available and doubles as a test double.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

var _ session.ProgressStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string][]byte)}
}

func (s *MemoryStore) Save(key string, snap *session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	s.mu.Lock()
	s.m[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(key string) (*session.Snapshot, bool, error) {
	s.mu.Lock()
	data, ok := s.m[key]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		_ = s.Clear(key)
		return nil, false, nil
	}
	return &snap, true, nil
}

func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites the stored value with unparseable bytes. Test hook.
func (s *MemoryStore) Corrupt(key string) {
	s.mu.Lock()
	s.m[key] = []byte("{not json")
	s.mu.Unlock()
}
