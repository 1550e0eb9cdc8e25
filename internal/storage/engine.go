// Package storage implements mongolite's append-log storage engine (spec
// §4.2, component C2): one file per collection, one directory per database,
// tombstone-then-append semantics, and chunked or random-access reads
// driven by a planner.ReadPlan.
//
// Locking is owned by the caller (internal/exec's per-collection mutex,
// spec §5) — this package assumes every call already holds the target
// collection's lock and performs no locking of its own, mirroring how
// pymongolite's ChunkedEngine (not FilesEngine) is the actual lock owner.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// Engine maps databases and collections onto the local filesystem: one
// subdirectory per database, one regular file per collection (spec §6).
type Engine struct {
	root string
}

// New returns a storage engine rooted at dir, creating dir if absent.
func New(dir string) (*Engine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root dir: %w", err)
	}
	return &Engine{root: abs}, nil
}

func (e *Engine) databasePath(db string) string {
	return filepath.Join(e.root, db)
}

func (e *Engine) collectionPath(db, coll string) string {
	return filepath.Join(e.databasePath(db), coll)
}

// DatabaseExists reports whether a directory exists for db.
func (e *Engine) DatabaseExists(db string) bool {
	info, err := os.Stat(e.databasePath(db))
	return err == nil && info.IsDir()
}

// CollectionExists reports whether a file exists for (db, coll).
func (e *Engine) CollectionExists(db, coll string) bool {
	info, err := os.Stat(e.collectionPath(db, coll))
	return err == nil && !info.IsDir()
}

// CreateDatabase creates the database directory. Idempotent: returns
// false (no error) if it already exists, matching files_engine.py.
func (e *Engine) CreateDatabase(db string) (bool, error) {
	if e.DatabaseExists(db) {
		return false, nil
	}
	if err := os.Mkdir(e.databasePath(db), 0o755); err != nil {
		return false, fmt.Errorf("storage: create database %q: %w", db, err)
	}
	return true, nil
}

// DropDatabase removes a database directory and everything in it.
// Idempotent: returns false if the database does not exist.
func (e *Engine) DropDatabase(db string) (bool, error) {
	if !e.DatabaseExists(db) {
		return false, nil
	}
	if err := os.RemoveAll(e.databasePath(db)); err != nil {
		return false, fmt.Errorf("storage: drop database %q: %w", db, err)
	}
	return true, nil
}

// CreateCollection creates an empty collection file, creating the parent
// database lazily (spec §3 "Databases are created lazily"). Idempotent.
func (e *Engine) CreateCollection(db, coll string) (bool, error) {
	if _, err := e.CreateDatabase(db); err != nil {
		return false, err
	}
	if e.CollectionExists(db, coll) {
		return false, nil
	}
	f, err := os.OpenFile(e.collectionPath(db, coll), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("storage: create collection %q: %w", coll, err)
	}
	return true, f.Close()
}

// DropCollection removes a collection file. Idempotent: returns false if
// the collection does not exist.
func (e *Engine) DropCollection(db, coll string) (bool, error) {
	if !e.DatabaseExists(db) {
		return false, nil
	}
	if !e.CollectionExists(db, coll) {
		return false, nil
	}
	if err := os.Remove(e.collectionPath(db, coll)); err != nil {
		return false, fmt.Errorf("storage: drop collection %q: %w", coll, err)
	}
	return true, nil
}

// ListCollections returns every collection (regular file) name under db.
func (e *Engine) ListCollections(db string) ([]string, error) {
	if !e.DatabaseExists(db) {
		return nil, ErrDatabaseNotFound
	}
	entries, err := os.ReadDir(e.databasePath(db))
	if err != nil {
		return nil, fmt.Errorf("storage: list collections of %q: %w", db, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (e *Engine) serialize(doc map[string]any) ([]byte, error) {
	return json.Marshal(doc)
}

func (e *Engine) deserialize(line []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(line, &doc); err != nil {
		return nil, fmt.Errorf("storage: decode document: %w", err)
	}
	return doc, nil
}

// openRW opens an existing collection file for read-write. It fails if
// the collection does not exist (collections are created explicitly or
// on first insert).
func (e *Engine) openRW(db, coll string) (*os.File, error) {
	return os.OpenFile(e.collectionPath(db, coll), os.O_RDWR, 0o644)
}
