// Package store provides the key-addressed durable store backing the
// submission queue and the session cache. Two independent namespaces share
// one SQLite file; the queue namespace is written only by the submission
// queue, the cache namespace only by the session/config cache.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Namespace selects one of the two independent key spaces.
type Namespace string

const (
	// NamespaceQueue holds pending submission records keyed by record id.
	NamespaceQueue Namespace = "queue"
	// NamespaceCache holds versioned blobs keyed by logical name
	// ("session", "config").
	NamespaceCache Namespace = "cache"
)

// ErrNotFound is the explicit absence signal for Get.
var ErrNotFound = errors.New("store: entry not found")

// StorageError wraps a failure of the underlying storage. It is fatal for
// the current operation and must be surfaced to the caller, never retried
// silently.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Entry is one stored record with its save timestamp.
type Entry struct {
	Key     string
	Value   []byte
	SavedAt time.Time
}

// Store is a SQLite-backed durable key/value store. SQLite serializes
// writes to a key, so a concurrent put and delete never leave a reader
// observing a partially written entry.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    ns       TEXT NOT NULL,
    key      TEXT NOT NULL,
    value    BLOB NOT NULL,
    saved_at TEXT NOT NULL,
    PRIMARY KEY (ns, key)
);
CREATE INDEX IF NOT EXISTS idx_entries_saved_at ON entries (ns, saved_at);
`

// Open opens (creating if needed) the store at path. A host that blocks
// persistent storage surfaces here as a StorageError; no operation on the
// store is possible afterwards.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, storageErr("open", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, storageErr("open", fmt.Errorf("apply sqlite pragma %q: %w", stmt, err))
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storageErr("open", fmt.Errorf("create schema: %w", err))
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close", err)
	}
	return nil
}

// Put inserts or replaces the entry for key in the given namespace. The
// write is atomic with respect to concurrent readers.
func (s *Store) Put(ns Namespace, key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO entries (ns, key, value, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (ns, key) DO UPDATE SET value = excluded.value, saved_at = excluded.saved_at`,
		string(ns), key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return storageErr("put", err)
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ns Namespace, key string) ([]byte, error) {
	var value []byte
	row := s.db.QueryRow(`SELECT value FROM entries WHERE ns = ? AND key = ?`, string(ns), key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get", err)
	}
	return value, nil
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (s *Store) Delete(ns Namespace, key string) error {
	if _, err := s.db.Exec(`DELETE FROM entries WHERE ns = ? AND key = ?`, string(ns), key); err != nil {
		return storageErr("delete", err)
	}
	return nil
}

// ListAll returns up to limit entries of the namespace in save order
// (oldest first, key as tiebreak). The order is stable for a given store
// state; callers must not depend on more than that.
func (s *Store) ListAll(ns Namespace, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.Query(
		`SELECT key, value, saved_at FROM entries WHERE ns = ? ORDER BY saved_at ASC, key ASC LIMIT ?`,
		string(ns), limit,
	)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var savedAt string
		if err := rows.Scan(&e.Key, &e.Value, &savedAt); err != nil {
			return nil, storageErr("list", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, savedAt); perr == nil {
			e.SavedAt = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return out, nil
}

// Count returns the number of entries in the namespace.
func (s *Store) Count(ns Namespace) (int, error) {
	var n int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM entries WHERE ns = ?`, string(ns))
	if err := row.Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}
