package searchcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"setlist/internal/catalog"
)

// Store persists catalog search results in SQLite so repeated runs over the
// same thread do not hammer the backends.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS search_results (
			backend TEXT NOT NULL,
			kind TEXT NOT NULL,
			query TEXT NOT NULL,
			scope TEXT NOT NULL,
			matches TEXT NOT NULL,
			cached_at TEXT NOT NULL,
			PRIMARY KEY (backend, kind, query, scope)
		)`)
	if err != nil {
		return fmt.Errorf("create search_results table: %w", err)
	}
	return nil
}

// Get returns the cached matches for a lookup, or found=false on a miss.
func (s *Store) Get(ctx context.Context, backend string, kind catalog.Kind, query, scope string) ([]catalog.Match, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT matches FROM search_results WHERE backend = ? AND kind = ? AND query = ? AND scope = ?`,
		backend, string(kind), query, scope,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var matches []catalog.Match
	if err := json.Unmarshal([]byte(payload), &matches); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return matches, true, nil
}

// Put stores the matches for a lookup, replacing any previous entry. Empty
// result lists are cached too; a clean miss is as expensive as a hit.
func (s *Store) Put(ctx context.Context, backend string, kind catalog.Kind, query, scope string, matches []catalog.Match) error {
	payload, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_results (backend, kind, query, scope, matches, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		backend, string(kind), query, scope, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Purge drops every cached entry for a backend.
func (s *Store) Purge(ctx context.Context, backend string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_results WHERE backend = ?`, backend); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}
