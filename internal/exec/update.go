package exec

import (
	"fmt"
	"reflect"

	"github.com/hvuhsg/mongolite/internal/filter"
	"github.com/hvuhsg/mongolite/internal/planner"
)

// update streams matching documents in chunks, applies cmd.Override via
// the filter package's update operators, and writes back only the
// documents that actually changed (spec §6, original_source's update()).
func (e *Engine) update(cmd Command) error {
	return e.applyChunked(cmd, func(doc map[string]any) map[string]any {
		return filter.Update(doc, cmd.Override)
	})
}

// replace streams matching documents in chunks and overwrites each with
// cmd.Replace, minting a fresh _id for the replacement the way
// original_source's replace() does (spec §6: "a fresh _id is minted for
// the replacement; for update, the existing _id is preserved").
func (e *Engine) replace(cmd Command) error {
	return e.applyChunked(cmd, func(doc map[string]any) map[string]any {
		out := make(map[string]any, len(cmd.Replace)+1)
		for k, v := range cmd.Replace {
			out[k] = v
		}
		out["_id"] = newObjectID()
		return out
	})
}

func (e *Engine) applyChunked(cmd Command, transform func(map[string]any) map[string]any) error {
	next := e.iterFiltered(cmd.DatabaseName, cmd.CollectionName, cmd.Filter, true)
	// Lookup keys this command has appended itself; a scan that continues
	// past the original end of the file reaches them and must skip them.
	written := map[int64]struct{}{}

	for {
		docs, err := next()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			break
		}

		overwrites := map[int64]map[string]any{}
		var oldIndexed, newIndexed []planner.IndexedDoc

		for _, d := range docs {
			if _, ok := written[d.lookupKey]; ok {
				continue
			}
			updated := transform(d.data)
			if reflect.DeepEqual(updated, d.data) {
				if !cmd.Many {
					break
				}
				continue
			}

			overwrites[d.lookupKey] = updated
			oldIndexed = append(oldIndexed, planner.IndexedDoc{ID: idOf(d.data), LookupKey: d.lookupKey, Data: d.data})

			if !cmd.Many {
				break
			}
		}

		if len(overwrites) > 0 {
			newKeys, err := e.storage.UpdateDocuments(cmd.DatabaseName, cmd.CollectionName, overwrites)
			if err != nil {
				return fmt.Errorf("exec: update: %w", err)
			}
			for _, k := range newKeys {
				written[k] = struct{}{}
			}
			if e.indexing != nil {
				for oldKey, newDoc := range overwrites {
					newIndexed = append(newIndexed, planner.IndexedDoc{ID: idOf(newDoc), LookupKey: newKeys[oldKey], Data: newDoc})
				}
				e.indexing.UpdateDocuments(cmd.DatabaseName, cmd.CollectionName, oldIndexed, newIndexed)
			}
		}

		if !cmd.Many {
			break
		}
	}
	return nil
}
