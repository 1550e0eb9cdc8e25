package exec

import (
	"fmt"

	"github.com/hvuhsg/mongolite/internal/planner"
)

// IndexDescription is returned by listIndexes (spec §6).
type IndexDescription struct {
	Field string
	Size  int
}

// createIndex registers field as indexed and backfills it from every
// currently stored document that has the field (spec §4.3/§4.4:
// "creating an index must reflect existing data"). Returns false, nil if
// indexing is disabled or the field is already indexed.
func (e *Engine) createIndex(cmd Command) (bool, error) {
	if e.indexing == nil {
		return false, nil
	}

	existing, err := e.scanAll(cmd.DatabaseName, cmd.CollectionName, map[string]any{
		cmd.IndexField: map[string]any{"$exists": true},
	})
	if err != nil {
		return false, fmt.Errorf("exec: create index: %w", err)
	}

	docs := make([]planner.IndexedDoc, len(existing))
	for i, d := range existing {
		docs[i] = planner.IndexedDoc{ID: idOf(d.data), LookupKey: d.lookupKey, Data: d.data}
	}

	if err := e.indexing.CreateIndex(cmd.DatabaseName, cmd.CollectionName, cmd.IndexField, docs); err != nil {
		return false, nil
	}
	return true, nil
}

func (e *Engine) deleteIndex(cmd Command) {
	if e.indexing == nil {
		return
	}
	e.indexing.DeleteIndex(cmd.DatabaseName, cmd.CollectionName, cmd.IndexField)
}

func (e *Engine) listIndexes(cmd Command) []IndexDescription {
	if e.indexing == nil {
		return nil
	}
	infos := e.indexing.ListIndexes(cmd.DatabaseName, cmd.CollectionName)
	out := make([]IndexDescription, len(infos))
	for i, info := range infos {
		out[i] = IndexDescription{Field: info.Field, Size: info.Size}
	}
	return out
}

// scanAll drains a filtered scan (bypassing the indexing engine, since it
// is used to backfill an index being created) into a single slice.
func (e *Engine) scanAll(db, coll string, flt map[string]any) ([]storedDoc, error) {
	next := e.iterFiltered(db, coll, flt, false)
	var all []storedDoc
	for {
		docs, err := next()
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			break
		}
		all = append(all, docs...)
	}
	return all, nil
}
