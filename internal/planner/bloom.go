// In-memory bloom filter accelerating secondary-index negative lookups.
//
// Adapted from the teacher's sparse-region bloom filter (folio's
// bloom.go), which exists to avoid a disk scan for values that are
// definitely absent. Here there is no disk involved — the sorted index
// already answers $eq in O(log n) — but for a field with many distinct
// values and a hot path of misses (e.g. repeatedly probing ids that were
// never indexed), skipping the bisect entirely is still a measurable win,
// and it gives github.com/zeebo/xxh3 (part of the teacher's dependency
// stack) a concrete home: hashing index values instead of hashing labels.
package planner

import "github.com/zeebo/xxh3"

const (
	bloomBits = 8192 // 1024 bytes, tuned for a single field's distinct value count
	bloomK    = 4
)

type bloomFilter struct {
	bits []byte
}

func newBloomFilter() *bloomFilter {
	return &bloomFilter{bits: make([]byte, bloomBits/8)}
}

func bloomKeyFor(v any) string {
	// fmt.Sprint would allocate per call on the hot insert path; strings
	// are used as their own key to avoid that, and every other kind falls
	// back to stringify.
	switch t := v.(type) {
	case string:
		return t
	default:
		return stringify(t)
	}
}

func (b *bloomFilter) positions(key string) [bloomK]uint {
	h := xxh3.HashString(key)
	var pos [bloomK]uint
	nbits := uint(bloomBits)
	for i := 0; i < bloomK; i++ {
		pos[i] = (uint(h) + uint(i)*2654435761) % nbits
	}
	return pos
}

func (b *bloomFilter) add(v any) {
	key := bloomKeyFor(v)
	for _, pos := range b.positions(key) {
		b.bits[pos/8] |= 1 << (pos % 8)
	}
}

// mightContain returns false only when v is definitely absent from the
// filter. A true result is not a guarantee — callers must still verify.
func (b *bloomFilter) mightContain(v any) bool {
	key := bloomKeyFor(v)
	for _, pos := range b.positions(key) {
		if b.bits[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
	}
	return true
}
