package exec

import (
	"fmt"

	"github.com/hvuhsg/mongolite/internal/planner"
)

// delete streams matching documents in chunks, tombstoning each chunk's
// lookup keys and removing it from every secondary index. many=false
// stops after the first matching document (spec §6).
func (e *Engine) delete(cmd Command) error {
	next := e.iterFiltered(cmd.DatabaseName, cmd.CollectionName, cmd.Filter, true)

	for {
		docs, err := next()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			break
		}
		if !cmd.Many {
			docs = docs[:1]
		}

		keys := make([]int64, len(docs))
		indexed := make([]planner.IndexedDoc, len(docs))
		for i, d := range docs {
			keys[i] = d.lookupKey
			indexed[i] = planner.IndexedDoc{ID: idOf(d.data), LookupKey: d.lookupKey, Data: d.data}
		}

		if err := e.storage.DeleteDocuments(cmd.DatabaseName, cmd.CollectionName, keys); err != nil {
			return fmt.Errorf("exec: delete: %w", err)
		}
		if e.indexing != nil {
			e.indexing.DeleteDocuments(cmd.DatabaseName, cmd.CollectionName, indexed)
		}

		if !cmd.Many {
			break
		}
	}
	return nil
}

func idOf(doc map[string]any) string {
	id, _ := doc["_id"].(string)
	return id
}
