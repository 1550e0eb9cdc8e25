// Package value implements comparison and equality for the dynamic
// document values mongolite operates on: JSON scalars, nested maps, and
// ordered lists, decoded through goccy/go-json as map[string]any trees.
//
// Field values are never hashed into index keys (unlike the teacher's
// label hashing) — secondary indexes keep the concrete value and compare
// it directly, so ordering here must be total and stable for the lifetime
// of a single index, even across mixed types (spec §4.3: "heterogeneous
// types in a field yield implementation-defined ordering but must be
// internally consistent").
package value

import (
	"fmt"
	"sort"
	"strings"
)

// Absent represents a missing field. It compares unequal to every
// concrete value, including JSON null, but is not itself an error —
// ported from pymongolite's utils.Null sentinel (original_source).
type Absent struct{}

// Get looks up field on doc, returning Absent{} if it is not present.
func Get(doc map[string]any, field string) any {
	if v, ok := doc[field]; ok {
		return v
	}
	return Absent{}
}

// rank orders values by dynamic type before comparing within a type, so
// that a total order exists across a field with heterogeneous values.
func rank(v any) int {
	switch v.(type) {
	case Absent:
		return 0
	case nil:
		return 1
	case bool:
		return 2
	case float64, int, int64:
		return 3
	case string:
		return 4
	case []any:
		return 5
	case map[string]any:
		return 6
	default:
		return 7
	}
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

// Equal reports whether two dynamic values are equal under mongolite's
// scalar comparison semantics. Absent never equals anything, including
// another Absent, mirroring the Python Null() instance semantics where
// Null is only ever synthesized transiently for a single comparison.
func Equal(a, b any) bool {
	if _, ok := a.(Absent); ok {
		return false
	}
	if _, ok := b.(Absent); ok {
		return false
	}
	return Compare(a, b) == 0
}

// Compare returns <0, 0, >0 comparing a to b under the total order
// described by rank(), falling back to type-specific comparison within
// the same rank.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}

	switch av := a.(type) {
	case Absent, nil:
		return 0
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case []any:
		bv := b.([]any)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return len(av) - len(bv)
	case map[string]any:
		bv := b.(map[string]any)
		return compareMaps(av, bv)
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)) // fallback, never hit for JSON-decoded values
}

func compareMaps(a, b map[string]any) int {
	ak := sortedKeys(a)
	bk := sortedKeys(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := Compare(a[ak[i]], b[bk[i]]); c != 0 {
			return c
		}
	}
	return len(ak) - len(bk)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone performs a deep copy of a document tree so that update operators
// can return a new document without aliasing the caller's slices/maps.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Clone(vv)
		}
		return out
	default:
		return v
	}
}

// CloneDoc is Clone specialised for the document root type.
func CloneDoc(doc map[string]any) map[string]any {
	return Clone(doc).(map[string]any)
}
