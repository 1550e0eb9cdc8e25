// Package filter implements the filter/projection/update interpreter
// (spec §4.5, component C5): pure functions over decoded documents with
// no I/O and no locking, ported from original_source's
// backend/utils.py (document_filter_match, update_with_fields,
// update_document_with_override) into the teacher's small-function style.
package filter

import (
	"github.com/hvuhsg/mongolite/internal/value"
)

// isCondition reports whether v is an operator map — a map whose first
// key (in the order utils.py's next(iter(...)) would see it) starts with
// "$". Since Go map iteration order is random, we instead say: a map with
// at least one "$"-prefixed key is an operator map. Filters that mix
// operator and non-operator keys in the same map are not meaningful
// mongolite filters and are not produced by any documented filter shape.
func isCondition(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for k := range m {
		if len(k) > 0 && k[0] == '$' {
			return true
		}
	}
	return false
}

// Match reports whether doc satisfies filter (spec §4.5). An empty or nil
// filter matches everything.
func Match(doc map[string]any, flt map[string]any) bool {
	if len(flt) == 0 {
		return true
	}

	for field, pattern := range flt {
		if len(field) > 0 && field[0] == '$' {
			if !matchGate(doc, field, pattern) {
				return false
			}
			continue
		}

		if !isCondition(pattern) {
			if !value.Equal(value.Get(doc, field), pattern) {
				return false
			}
			continue
		}

		if !matchField(doc, field, pattern.(map[string]any)) {
			return false
		}
	}

	return true
}

func matchGate(doc map[string]any, gate string, raw any) bool {
	clauses, _ := raw.([]any)
	switch gate {
	case "$and":
		for _, c := range clauses {
			if sub, ok := c.(map[string]any); ok && !Match(doc, sub) {
				return false
			}
		}
		return true
	case "$or":
		if len(clauses) == 0 {
			return true
		}
		for _, c := range clauses {
			if sub, ok := c.(map[string]any); ok && Match(doc, sub) {
				return true
			}
		}
		return false
	case "$nor":
		for _, c := range clauses {
			if sub, ok := c.(map[string]any); ok && Match(doc, sub) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// matchField evaluates every operator present in pattern against field's
// value in doc, short-circuiting false (spec §4.5's operator table:
// $eq/$ne/$gt/$gte/$lt/$lte/$exists/$in/$nin/$not).
func matchField(doc map[string]any, field string, pattern map[string]any) bool {
	v := value.Get(doc, field)
	_, fieldExists := doc[field]

	for op, operand := range pattern {
		switch op {
		case "$eq":
			if !value.Equal(v, operand) {
				return false
			}
		case "$ne":
			if value.Equal(v, operand) {
				return false
			}
		case "$gt":
			if value.Compare(v, operand) <= 0 {
				return false
			}
		case "$gte":
			if value.Compare(v, operand) < 0 {
				return false
			}
		case "$lt":
			if value.Compare(v, operand) >= 0 {
				return false
			}
		case "$lte":
			if value.Compare(v, operand) > 0 {
				return false
			}
		case "$exists":
			want, _ := operand.(bool)
			if want != fieldExists {
				return false
			}
		case "$in":
			items, _ := operand.([]any)
			found := false
			for _, item := range items {
				if value.Equal(v, item) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$nin":
			items, _ := operand.([]any)
			for _, item := range items {
				if value.Equal(v, item) {
					return false
				}
			}
		case "$not":
			if matchField(doc, field, asOperatorMap(operand)) {
				return false
			}
		}
	}

	return true
}

// asOperatorMap normalizes a $not operand: either an operator map already,
// or a bare scalar standing in for {"$eq": operand} (spec §4.5's
// "$not on a bare scalar is sugar for $not: {$eq: ...}" addition).
func asOperatorMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && isCondition(m) {
		return m
	}
	return map[string]any{"$eq": v}
}
