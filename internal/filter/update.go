package filter

import (
	"github.com/hvuhsg/mongolite/internal/value"
)

// Update applies an update document's operators to a clone of doc and
// returns the result, leaving doc untouched (spec §4.5, §4.2: the caller
// always writes the returned document as a brand new line via
// tombstone-then-append, never mutates in place). Operators not present
// in override are no-ops; fields named by an operator that the document
// lacks follow original_source's update_document_with_override behavior
// field by field, documented per case below.
func Update(doc map[string]any, override map[string]any) map[string]any {
	out := value.CloneDoc(doc)

	for action, rawFields := range override {
		fields, _ := rawFields.(map[string]any)

		switch action {
		case "$set":
			for field, v := range fields {
				out[field] = value.Clone(v)
			}

		case "$unset":
			for field := range fields {
				delete(out, field)
			}

		case "$inc":
			for field, delta := range fields {
				if cur, ok := out[field]; ok {
					out[field] = addNumeric(cur, delta)
				}
			}

		case "$addToSet":
			for field, v := range fields {
				applyAddToSet(out, field, v)
			}

		case "$push":
			for field, v := range fields {
				applyPush(out, field, v)
			}

		case "$pull":
			for field, v := range fields {
				applyPull(out, field, v)
			}
		}
	}

	return out
}

func addNumeric(cur, delta any) any {
	cf, cok := asFloat(cur)
	df, dok := asFloat(delta)
	if !cok || !dok {
		return cur
	}
	if ci, ok := cur.(int); ok {
		if di, ok := delta.(int); ok {
			return ci + di
		}
	}
	return cf + df
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// applyAddToSet appends v to field's list only if not already present
// (by value equality), or with $each appends each item not already in the
// list. Duplicates already present in the list are kept; order is
// preserved rather than randomized by a Python set.
func applyAddToSet(doc map[string]any, field string, v any) {
	list, ok := doc[field].([]any)
	if !ok {
		return
	}

	if !isCondition(v) {
		for _, item := range list {
			if value.Equal(item, v) {
				return
			}
		}
		doc[field] = append(list, value.Clone(v))
		return
	}

	op := v.(map[string]any)
	each, ok := op["$each"].([]any)
	if !ok {
		return
	}
	for _, item := range each {
		found := false
		for _, existing := range list {
			if value.Equal(existing, item) {
				found = true
				break
			}
		}
		if !found {
			list = append(list, value.Clone(item))
		}
	}
	doc[field] = list
}

// applyPush appends to field's list, or with an operator map supports
// $each (append many), $sort (reverse-sort when -1), and $slice (keep the
// first n elements) — spec §4.5's push modifiers.
func applyPush(doc map[string]any, field string, v any) {
	list, _ := doc[field].([]any)

	if !isCondition(v) {
		doc[field] = append(list, value.Clone(v))
		return
	}

	op := v.(map[string]any)
	each, _ := op["$each"].([]any)
	for _, item := range each {
		list = append(list, value.Clone(item))
	}

	if sortDir, ok := op["$sort"]; ok {
		desc := false
		if f, ok := asFloat(sortDir); ok && f == -1 {
			desc = true
		}
		sortSlice(list, desc)
	}

	if sliceN, ok := op["$slice"]; ok {
		if n, ok := asFloat(sliceN); ok {
			limit := int(n)
			if limit >= 0 && limit < len(list) {
				list = list[:limit]
			}
		}
	}

	doc[field] = list
}

func sortSlice(list []any, desc bool) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0; j-- {
			c := value.Compare(list[j-1], list[j])
			if (desc && c < 0) || (!desc && c > 0) {
				list[j-1], list[j] = list[j], list[j-1]
			} else {
				break
			}
		}
	}
}

// applyPull removes matching elements from field's list: a bare scalar
// removes elements equal to it; an operator map is evaluated per element
// by wrapping each element as {field: item} and matching it against
// {field: pattern}, mirroring original_source's
// document_filter_match(sub_document, {field: filter}) trick (utils.py),
// which keys the sub-match by the same field name rather than matching
// the bare operator map directly.
func applyPull(doc map[string]any, field string, v any) {
	list, ok := doc[field].([]any)
	if !ok {
		return
	}

	if !isCondition(v) {
		out := list[:0:0]
		for _, item := range list {
			if !value.Equal(item, v) {
				out = append(out, item)
			}
		}
		doc[field] = out
		return
	}

	keyed := map[string]any{field: v}
	out := list[:0:0]
	for _, item := range list {
		synth := map[string]any{field: item}
		if Match(synth, keyed) {
			continue
		}
		out = append(out, item)
	}
	doc[field] = out
}
