// Write operations: append, tombstone-then-append overwrite, and
// tombstone-only delete.
package storage

import (
	"fmt"
	"io"
	"os"
)

// InsertDocuments appends each document as its own line and returns the
// lookup key (byte offset) each was written at, in order (spec §4.2).
func (e *Engine) InsertDocuments(db, coll string, docs []map[string]any) ([]int64, error) {
	f, err := e.openRW(db, coll)
	if err != nil {
		return nil, fmt.Errorf("storage: insert: %w", err)
	}
	defer f.Close()

	keys := make([]int64, 0, len(docs))
	for _, doc := range docs {
		key, err := e.appendLine(f, doc)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// UpdateDocuments tombstones each old lookup key and appends its
// replacement; overwrites is a map, so entries are written in no
// particular order. For each entry, tombstone happens
// before append (spec §9: "on a partial failure between the two, the
// document is lost rather than duplicated" — the accepted trade-off
// under the no-compaction, no-transactions non-goals). Returns the new
// lookup key each replacement was written at, keyed by its old lookup
// key, so the indexing engine can repoint the root index.
func (e *Engine) UpdateDocuments(db, coll string, overwrites map[int64]map[string]any) (map[int64]int64, error) {
	f, err := e.openRW(db, coll)
	if err != nil {
		return nil, fmt.Errorf("storage: update: %w", err)
	}
	defer f.Close()

	newKeys := make(map[int64]int64, len(overwrites))
	for oldKey, newDoc := range overwrites {
		if err := e.tombstoneAt(f, oldKey); err != nil {
			return newKeys, fmt.Errorf("storage: update: tombstone %d: %w", oldKey, err)
		}
		newKey, err := e.appendLine(f, newDoc)
		if err != nil {
			return newKeys, fmt.Errorf("storage: update: append replacement: %w", err)
		}
		newKeys[oldKey] = newKey
	}
	return newKeys, nil
}

// DeleteDocuments tombstones each lookup key.
func (e *Engine) DeleteDocuments(db, coll string, keys []int64) error {
	f, err := e.openRW(db, coll)
	if err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	defer f.Close()

	for _, key := range keys {
		if err := e.tombstoneAt(f, key); err != nil {
			return fmt.Errorf("storage: delete: tombstone %d: %w", key, err)
		}
	}
	return nil
}

func (e *Engine) appendLine(f *os.File, doc map[string]any) (int64, error) {
	raw, err := e.serialize(doc)
	if err != nil {
		return 0, fmt.Errorf("storage: encode document: %w", err)
	}
	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("storage: seek end: %w", err)
	}
	raw = append(raw, '\n')
	if _, err := f.WriteAt(raw, offset); err != nil {
		return 0, fmt.Errorf("storage: append: %w", err)
	}
	return offset, nil
}

func (e *Engine) tombstoneAt(f *os.File, offset int64) error {
	line, err := readLineAt(f, offset)
	if err != nil {
		return err
	}
	if _, err := f.WriteAt(tombstoneFor(line), offset); err != nil {
		return fmt.Errorf("storage: write tombstone: %w", err)
	}
	return nil
}
