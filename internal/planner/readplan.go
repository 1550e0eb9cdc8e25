// Package planner implements the read-plan algebra (spec §4.1, component
// C1), the per-field secondary index (§4.3, C3), and the indexing engine
// that owns the root index and translates filter ASTs into read plans
// (§4.4, C4).
package planner

// ReadPlan describes which lookup keys (byte offsets, spec §3) a storage
// read should visit. It is one of two shapes: a forward scan from Offset,
// or random access over the explicit Indexes set; either may carry an
// ExcludeIndexes set that the post-extraction filter (owned by the
// execution engine) uses to reject keys the algebra widened in rather
// than narrowed out. The algebra is conservative: ambiguity always widens
// a plan, never narrows it (spec §4.1, §9).
type ReadPlan struct {
	// Offset is the starting byte for a scan plan. Nil means "not a scan"
	// (an indexed plan is in effect) — spec §3's "at least one of offset /
	// indexes is populated".
	Offset *int64

	// Indexes is the explicit lookup-key set for a random-access plan.
	// Nil/empty together with a non-nil Offset means scan mode.
	Indexes map[int64]struct{}

	// ExcludeIndexes suppresses matches after retrieval.
	ExcludeIndexes map[int64]struct{}

	// ChunkSize bounds how many live documents one storage read produces.
	ChunkSize int

	ended bool
}

// NewScan returns a scan plan starting at offset.
func NewScan(offset int64) *ReadPlan {
	return &ReadPlan{Offset: &offset, ExcludeIndexes: map[int64]struct{}{}}
}

// NewIndexed returns a random-access plan over the given lookup keys. An
// empty key set is marked ended immediately — there is nothing to visit,
// so no storage I/O should occur (spec §4.4: "if a branch proves empty,
// the plan is marked ended").
func NewIndexed(keys map[int64]struct{}) *ReadPlan {
	if keys == nil {
		keys = map[int64]struct{}{}
	}
	p := &ReadPlan{Indexes: keys, ExcludeIndexes: map[int64]struct{}{}}
	if len(keys) == 0 {
		p.ended = true
	}
	return p
}

// Empty returns an already-ended plan: no I/O will occur (spec §4.4,
// "If a branch proves empty... the plan is marked ended").
func Empty() *ReadPlan {
	p := NewScan(0)
	p.ended = true
	return p
}

// IsIndexed reports whether this plan visits an explicit key set rather
// than scanning.
func (p *ReadPlan) IsIndexed() bool {
	return p.Indexes != nil
}

// Ended reports whether this plan is terminal: no further reads should
// be attempted (spec §3: "ended is monotonic false→true").
func (p *ReadPlan) Ended() bool {
	return p.ended
}

// End marks the plan terminal.
func (p *ReadPlan) End() {
	p.ended = true
}

func cloneKeys(m map[int64]struct{}) map[int64]struct{} {
	out := make(map[int64]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func unionKeys(a, b map[int64]struct{}) map[int64]struct{} {
	out := cloneKeys(a)
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func intersectKeys(a, b map[int64]struct{}) map[int64]struct{} {
	out := map[int64]struct{}{}
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// And combines two plans so the result visits only keys both would have
// visited (spec §4.1). Indexed∩Indexed intersects; Indexed∩Scan keeps the
// indexed side (narrower); Scan∩Scan keeps the larger starting offset.
// ExcludeIndexes always unions — either side's exclusion still applies.
func And(a, b *ReadPlan) *ReadPlan {
	var out *ReadPlan
	switch {
	case a.IsIndexed() && b.IsIndexed():
		out = NewIndexed(intersectKeys(a.Indexes, b.Indexes))
	case a.IsIndexed():
		out = NewIndexed(cloneKeys(a.Indexes))
	case b.IsIndexed():
		out = NewIndexed(cloneKeys(b.Indexes))
	default:
		offset := *a.Offset
		if *b.Offset > offset {
			offset = *b.Offset
		}
		out = NewScan(offset)
	}
	out.ExcludeIndexes = unionKeys(a.ExcludeIndexes, b.ExcludeIndexes)
	out.ended = out.ended || a.ended || b.ended
	return out
}

// Or combines two plans so the result visits keys either would have
// visited. Indexed∪Indexed unions; if either side is a scan, the result
// is a scan from the smaller offset (an indexed union can't be
// represented precisely without a scan lower bound, spec §4.1).
// ExcludeIndexes intersects — a key must be excluded by both sides to
// still be excluded from the union.
func Or(a, b *ReadPlan) *ReadPlan {
	var out *ReadPlan
	switch {
	case a.IsIndexed() && b.IsIndexed():
		out = NewIndexed(unionKeys(a.Indexes, b.Indexes))
	case a.IsIndexed() && !b.IsIndexed():
		out = NewScan(*b.Offset)
	case !a.IsIndexed() && b.IsIndexed():
		out = NewScan(*a.Offset)
	default:
		offset := *a.Offset
		if *b.Offset < offset {
			offset = *b.Offset
		}
		out = NewScan(offset)
	}
	out.ExcludeIndexes = intersectKeys(a.ExcludeIndexes, b.ExcludeIndexes)
	out.ended = out.ended || (a.ended && b.ended)
	return out
}

// Not negates a plan. For an indexed plan this swaps Indexes and
// ExcludeIndexes outright; if the resulting Indexes set is empty the
// plan collapses to a full scan from 0 (we otherwise know nothing about
// which keys to visit). A scan plan's complement is left as the same
// scan plus its already-collected exclusions — we cannot enumerate "every
// key not currently excluded" without a full scan, so correctness is
// deferred entirely to the execution engine's post-extraction filter
// (spec §4.1, §9).
func Not(a *ReadPlan) *ReadPlan {
	if a.IsIndexed() {
		newIndexes := cloneKeys(a.ExcludeIndexes)
		newExclude := cloneKeys(a.Indexes)
		if len(newIndexes) == 0 {
			out := NewScan(0)
			out.ExcludeIndexes = newExclude
			return out
		}
		out := NewIndexed(newIndexes)
		out.ExcludeIndexes = newExclude
		return out
	}

	out := NewScan(*a.Offset)
	out.ExcludeIndexes = cloneKeys(a.ExcludeIndexes)
	return out
}
