// Secondary index: an ordered multiset of (value, id) pairs supporting
// range queries (spec §4.3, component C3). Grounded on the teacher's
// sorted-section binary search (folio's scan.go) and on the original
// Python SortedListBasicIndex (original_source/.../sorted_list_basic_index.py),
// whose bisect_left/bisect_right operator table this mirrors exactly.
package planner

import (
	"sort"

	"github.com/hvuhsg/mongolite/internal/value"
)

// entry is one (value, id) pair held by a SecondaryIndex.
type entry struct {
	value any
	id    string
}

// SecondaryIndex keeps entries sorted by value (and, for equal values,
// newest first, since Add inserts at the lower bound — only id set
// membership is observable, never relative order among ties).
type SecondaryIndex struct {
	entries []entry
	bloom   *bloomFilter
}

// NewSecondaryIndex returns an empty index.
func NewSecondaryIndex() *SecondaryIndex {
	return &SecondaryIndex{bloom: newBloomFilter()}
}

// Len reports the number of (value, id) pairs held, used for index
// metadata's "size" field (spec §3).
func (idx *SecondaryIndex) Len() int {
	return len(idx.entries)
}

// Add inserts (v, id) keeping entries sorted by value.
func (idx *SecondaryIndex) Add(v any, id string) {
	i := sort.Search(len(idx.entries), func(i int) bool {
		return value.Compare(idx.entries[i].value, v) >= 0
	})
	idx.entries = append(idx.entries, entry{})
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = entry{value: v, id: id}
	idx.bloom.add(v)
}

// Remove deletes the first (v, id) pair found. No-op if absent.
func (idx *SecondaryIndex) Remove(v any, id string) {
	lo, hi := idx.bounds(v)
	for i := lo; i < hi; i++ {
		if idx.entries[i].id == id {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return
		}
	}
}

// bounds returns [lowerBound(v), upperBound(v)) over idx.entries.
func (idx *SecondaryIndex) bounds(v any) (int, int) {
	lo := sort.Search(len(idx.entries), func(i int) bool {
		return value.Compare(idx.entries[i].value, v) >= 0
	})
	hi := sort.Search(len(idx.entries), func(i int) bool {
		return value.Compare(idx.entries[i].value, v) > 0
	})
	return lo, hi
}

// QueryResult is the answer to a single-operator query against one
// index: either a concrete id set, or Fallback=true meaning the operator
// is unsupported by this index and the caller must widen to a scan
// (spec §4.3: $ne, $nin, $exists:false return the fall-back sentinel).
type QueryResult struct {
	IDs      map[string]struct{}
	Fallback bool
}

func idSet(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// Query answers one field-level operator against this index (spec
// §4.3's operator table).
func (idx *SecondaryIndex) Query(op string, v any) QueryResult {
	switch op {
	case "$eq":
		if !idx.bloom.mightContain(v) {
			return QueryResult{IDs: idSet()}
		}
		lo, hi := idx.bounds(v)
		return QueryResult{IDs: idx.idsIn(lo, hi)}

	case "$gt":
		_, hi := idx.bounds(v)
		return QueryResult{IDs: idx.idsIn(hi, len(idx.entries))}

	case "$gte":
		lo, _ := idx.bounds(v)
		return QueryResult{IDs: idx.idsIn(lo, len(idx.entries))}

	case "$lt":
		lo, _ := idx.bounds(v)
		return QueryResult{IDs: idx.idsIn(0, lo)}

	case "$lte":
		_, hi := idx.bounds(v)
		return QueryResult{IDs: idx.idsIn(0, hi)}

	case "$exists":
		exists, _ := v.(bool)
		if !exists {
			return QueryResult{Fallback: true}
		}
		return QueryResult{IDs: idx.idsIn(0, len(idx.entries))}

	case "$in":
		values, _ := v.([]any)
		ids := map[string]struct{}{}
		for _, item := range values {
			lo, hi := idx.bounds(item)
			for _, id := range idx.idsSlice(lo, hi) {
				ids[id] = struct{}{}
			}
		}
		return QueryResult{IDs: ids}

	default: // $ne, $nin, and anything else: unsupported, fall back to scan
		return QueryResult{Fallback: true}
	}
}

func (idx *SecondaryIndex) idsSlice(lo, hi int) []string {
	ids := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		ids = append(ids, idx.entries[i].id)
	}
	return ids
}

func (idx *SecondaryIndex) idsIn(lo, hi int) map[string]struct{} {
	return idSet(idx.idsSlice(lo, hi)...)
}
