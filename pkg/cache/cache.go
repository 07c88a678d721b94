// Package cache persists the last-fetched dataset together with the
// version tag and content hash that describe it. The three values are
// only ever written together, so readers never observe a half-updated
// record.
package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	keyDataset = "datasetJson"
	keyVersion = "versionTag"
	keyHash    = "contentHash"
)

// Record is the persisted cache triple.
type Record struct {
	DatasetJSON string
	VersionTag  string
	ContentHash string
}

// StorageError wraps persistence failures. Callers treat any storage
// failure as a cache miss; it is never fatal.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("cache %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

type Store struct {
	sql *sql.DB
}

// Open opens (and if needed creates) the cache database at path.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS cache_entries (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
	`); err != nil {
		return nil, &StorageError{Op: "init", Err: err}
	}
	return &Store{sql: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Get returns the cached record, or (nil, nil) when no complete triple
// has been stored yet.
func (s *Store) Get(ctx context.Context) (*Record, error) {
	rows, err := s.sql.QueryContext(ctx, "SELECT key, value FROM cache_entries WHERE key IN (?, ?, ?)", keyDataset, keyVersion, keyHash)
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	defer rows.Close()

	var rec Record
	seen := 0
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, &StorageError{Op: "get", Err: err}
		}
		switch k {
		case keyDataset:
			rec.DatasetJSON = v
		case keyVersion:
			rec.VersionTag = v
		case keyHash:
			rec.ContentHash = v
		}
		seen++
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	// A partial triple cannot be produced by Put; treat it as absent.
	if seen < 3 || rec.DatasetJSON == "" {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the dataset, version tag, and content hash in a single
// transaction.
func (s *Store) Put(ctx context.Context, datasetJSON, versionTag, contentHash string) error {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "put", Err: err}
	}
	for k, v := range map[string]string{
		keyDataset: datasetJSON,
		keyVersion: versionTag,
		keyHash:    contentHash,
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cache_entries(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			_ = tx.Rollback()
			return &StorageError{Op: "put", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "put", Err: err}
	}
	return nil
}

// Clear removes the cached triple.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sql.ExecContext(ctx, "DELETE FROM cache_entries"); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}
