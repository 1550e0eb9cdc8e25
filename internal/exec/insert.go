package exec

import (
	"fmt"

	"github.com/hvuhsg/mongolite/internal/planner"
)

// insert assigns a fresh _id to every document, appends them to storage,
// and (if indexing is enabled) adds them to every secondary index defined
// on the collection. Returns the assigned ids in input order.
func (e *Engine) insert(cmd Command) ([]string, error) {
	if _, err := e.storage.CreateCollection(cmd.DatabaseName, cmd.CollectionName); err != nil {
		return nil, fmt.Errorf("exec: insert: %w", err)
	}

	ids := make([]string, len(cmd.Documents))
	for i, doc := range cmd.Documents {
		id := newObjectID()
		doc["_id"] = id
		ids[i] = id
	}

	keys, err := e.storage.InsertDocuments(cmd.DatabaseName, cmd.CollectionName, cmd.Documents)
	if err != nil {
		return nil, fmt.Errorf("exec: insert: %w", err)
	}

	if e.indexing != nil {
		indexed := make([]planner.IndexedDoc, len(cmd.Documents))
		for i, doc := range cmd.Documents {
			indexed[i] = planner.IndexedDoc{ID: ids[i], LookupKey: keys[i], Data: doc}
		}
		e.indexing.InsertDocuments(cmd.DatabaseName, cmd.CollectionName, indexed)
	}

	e.log.Debug().Str("db", cmd.DatabaseName).Str("collection", cmd.CollectionName).
		Int("count", len(ids)).Msg("inserted documents")

	return ids, nil
}
