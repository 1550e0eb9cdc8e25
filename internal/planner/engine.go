// Indexing engine (spec §4.4, component C4): owns the process-wide root
// index (_id -> lookup key) and the per-(database, collection, field)
// secondary indexes, and translates a filter AST into a ReadPlan. Grounded
// on original_source's indexing_engine/base_engine.py and v1_engine.py,
// restructured into the teacher's small-type-per-file Go idiom.
package planner

import (
	"fmt"

	"github.com/hvuhsg/mongolite/internal/value"
)

// IndexedDoc is the minimal shape the indexing engine needs from a stored
// document: its id, lookup key, and field values.
type IndexedDoc struct {
	ID        string
	LookupKey int64
	Data      map[string]any
}

type collectionKey struct {
	db, coll string
}

type fieldKey struct {
	db, coll, field string
}

// Engine owns every index for every collection. It performs no locking of
// its own — the execution engine calls every Engine method with the
// target collection's lock held (spec §5).
type Engine struct {
	root    map[collectionKey]map[string]int64 // id -> lookup key
	indexes map[fieldKey]*SecondaryIndex
	order   map[collectionKey][]string // field names, in CreateIndex order, for ListIndexes
}

// New returns an empty indexing engine.
func New() *Engine {
	return &Engine{
		root:    map[collectionKey]map[string]int64{},
		indexes: map[fieldKey]*SecondaryIndex{},
		order:   map[collectionKey][]string{},
	}
}

func (e *Engine) rootFor(db, coll string) map[string]int64 {
	ck := collectionKey{db, coll}
	m, ok := e.root[ck]
	if !ok {
		m = map[string]int64{}
		e.root[ck] = m
	}
	return m
}

// DropCollection forgets every index and root entry for (db, coll), used
// when a collection is dropped (spec §6).
func (e *Engine) DropCollection(db, coll string) {
	ck := collectionKey{db, coll}
	delete(e.root, ck)
	for _, field := range e.order[ck] {
		delete(e.indexes, fieldKey{db, coll, field})
	}
	delete(e.order, ck)
}

// CreateIndex registers field as indexed for (db, coll) and backfills it
// from the currently known documents (spec §4.3: creating an index must
// reflect existing data, not just future writes).
func (e *Engine) CreateIndex(db, coll, field string, existing []IndexedDoc) error {
	fk := fieldKey{db, coll, field}
	if _, ok := e.indexes[fk]; ok {
		return fmt.Errorf("planner: index already exists on %q", field)
	}
	idx := NewSecondaryIndex()
	for _, doc := range existing {
		v := value.Get(doc.Data, field)
		if _, absent := v.(value.Absent); absent {
			continue
		}
		idx.Add(v, doc.ID)
	}
	e.indexes[fk] = idx
	ck := collectionKey{db, coll}
	e.order[ck] = append(e.order[ck], field)
	return nil
}

// DeleteIndex removes a previously created index. No-op if it doesn't exist.
func (e *Engine) DeleteIndex(db, coll, field string) {
	fk := fieldKey{db, coll, field}
	if _, ok := e.indexes[fk]; !ok {
		return
	}
	delete(e.indexes, fk)
	ck := collectionKey{db, coll}
	fields := e.order[ck]
	for i, f := range fields {
		if f == field {
			e.order[ck] = append(fields[:i], fields[i+1:]...)
			break
		}
	}
}

// IndexInfo describes one index for listIndexes (spec §6).
type IndexInfo struct {
	Field string
	Size  int
}

// ListIndexes reports every index on (db, coll) in creation order.
func (e *Engine) ListIndexes(db, coll string) []IndexInfo {
	ck := collectionKey{db, coll}
	out := make([]IndexInfo, 0, len(e.order[ck]))
	for _, field := range e.order[ck] {
		idx := e.indexes[fieldKey{db, coll, field}]
		out = append(out, IndexInfo{Field: field, Size: idx.Len()})
	}
	return out
}

// InsertDocuments records each document's id/lookup key in the root index
// and adds it to every secondary index currently defined for (db, coll).
func (e *Engine) InsertDocuments(db, coll string, docs []IndexedDoc) {
	root := e.rootFor(db, coll)
	ck := collectionKey{db, coll}
	for _, doc := range docs {
		root[doc.ID] = doc.LookupKey
		for _, field := range e.order[ck] {
			v := value.Get(doc.Data, field)
			if _, absent := v.(value.Absent); absent {
				continue
			}
			e.indexes[fieldKey{db, coll, field}].Add(v, doc.ID)
		}
	}
}

// DeleteDocuments removes each document from the root index and every
// secondary index, using its last known field values to locate its entry.
func (e *Engine) DeleteDocuments(db, coll string, docs []IndexedDoc) {
	root := e.rootFor(db, coll)
	ck := collectionKey{db, coll}
	for _, doc := range docs {
		delete(root, doc.ID)
		for _, field := range e.order[ck] {
			v := value.Get(doc.Data, field)
			if _, absent := v.(value.Absent); absent {
				continue
			}
			e.indexes[fieldKey{db, coll, field}].Remove(v, doc.ID)
		}
	}
}

// UpdateDocuments replaces each document's secondary-index entries: it is
// removed from every index using oldDoc's values and re-added using
// newDoc's values, and the root index is repointed to the new lookup key
// (spec §4.2's tombstone-then-append changes the lookup key on update).
func (e *Engine) UpdateDocuments(db, coll string, oldDocs, newDocs []IndexedDoc) {
	e.DeleteDocuments(db, coll, oldDocs)
	e.InsertDocuments(db, coll, newDocs)
}

// LookupKey returns the current lookup key for id, if known.
func (e *Engine) LookupKey(db, coll, id string) (int64, bool) {
	key, ok := e.rootFor(db, coll)[id]
	return key, ok
}

// HasIndex reports whether field is indexed on (db, coll).
func (e *Engine) HasIndex(db, coll, field string) bool {
	_, ok := e.indexes[fieldKey{db, coll, field}]
	return ok
}

// idsToKeys maps a set of document ids to the lookup keys they currently
// resolve to, dropping any id the root index no longer knows about (a
// stale index entry from a document deleted through another path).
func (e *Engine) idsToKeys(db, coll string, ids map[string]struct{}) map[int64]struct{} {
	root := e.rootFor(db, coll)
	out := make(map[int64]struct{}, len(ids))
	for id := range ids {
		if key, ok := root[id]; ok {
			out[key] = struct{}{}
		}
	}
	return out
}

// Plan translates a filter AST into a ReadPlan (spec §4.4). The filter is
// the same map[string]any shape collection commands accept: gate keys
// ($and, $or, $nor) combine with And/Or/Not, and a field key with an
// operator map is answered by that field's secondary index if one exists,
// else widened to a full scan from 0.
func (e *Engine) Plan(db, coll string, filter map[string]any) *ReadPlan {
	if len(filter) == 0 {
		return NewScan(0)
	}

	var plans []*ReadPlan
	for key, raw := range filter {
		switch key {
		case "$and":
			plans = append(plans, e.planGate(db, coll, raw, And, NewScan(0)))
		case "$or":
			plans = append(plans, e.planGate(db, coll, raw, Or, Empty()))
		case "$nor":
			inner := e.planGate(db, coll, raw, Or, Empty())
			plans = append(plans, Not(inner))
		case "_id":
			plans = append(plans, e.planID(db, coll, raw))
		default:
			plans = append(plans, e.planField(db, coll, key, raw))
		}
	}

	out := plans[0]
	for _, p := range plans[1:] {
		out = And(out, p)
	}
	return out
}

func (e *Engine) planGate(db, coll string, raw any, combine func(a, b *ReadPlan) *ReadPlan, identity *ReadPlan) *ReadPlan {
	clauses, ok := raw.([]any)
	if !ok || len(clauses) == 0 {
		return identity
	}
	out := (*ReadPlan)(nil)
	for _, c := range clauses {
		clause, ok := c.(map[string]any)
		if !ok {
			continue
		}
		p := e.Plan(db, coll, clause)
		if out == nil {
			out = p
			continue
		}
		out = combine(out, p)
	}
	if out == nil {
		return identity
	}
	return out
}

// planID special-cases the _id field, which is always "indexed" via the
// root map itself rather than a SecondaryIndex.
func (e *Engine) planID(db, coll string, raw any) *ReadPlan {
	ops := asOperatorMap(raw)
	root := e.rootFor(db, coll)

	for op, v := range ops {
		switch op {
		case "$eq":
			id, _ := v.(string)
			if key, ok := root[id]; ok {
				return NewIndexed(map[int64]struct{}{key: {}})
			}
			return Empty()
		case "$in":
			ids, _ := v.([]any)
			keys := map[int64]struct{}{}
			for _, item := range ids {
				id, _ := item.(string)
				if key, ok := root[id]; ok {
					keys[key] = struct{}{}
				}
			}
			return NewIndexed(keys)
		}
	}
	return NewScan(0)
}

func (e *Engine) planField(db, coll, field string, raw any) *ReadPlan {
	ops := asOperatorMap(raw)

	idx, indexed := e.indexes[fieldKey{db, coll, field}]
	if !indexed {
		return NewScan(0)
	}

	var out *ReadPlan
	for op, v := range ops {
		if op == "$not" {
			inner := e.planField(db, coll, field, v)
			p := Not(inner)
			if out == nil {
				out = p
			} else {
				out = And(out, p)
			}
			continue
		}

		res := idx.Query(op, v)
		var p *ReadPlan
		if res.Fallback {
			p = NewScan(0)
		} else {
			p = NewIndexed(e.idsToKeys(db, coll, res.IDs))
		}
		if out == nil {
			out = p
		} else {
			out = And(out, p)
		}
	}
	if out == nil {
		return NewScan(0)
	}
	return out
}

// asOperatorMap normalizes a filter value into an operator map: a bare
// scalar (or list, for an implicit $eq) is sugar for {"$eq": raw}
// (spec §4.5).
func asOperatorMap(raw any) map[string]any {
	if m, ok := raw.(map[string]any); ok {
		isOperatorMap := false
		for k := range m {
			if len(k) > 0 && k[0] == '$' {
				isOperatorMap = true
				break
			}
		}
		if isOperatorMap {
			return m
		}
	}
	return map[string]any{"$eq": raw}
}
