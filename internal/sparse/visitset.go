// Package sparse provides a generation-stamped visit counter, the VM's
// bound on epsilon-closure work: spec.md's §4.4 requires that "a per-PC
// visit counter guarantees each PC expands at most twice per index".
//
// This is a narrower cousin of a classic sparse set (O(1) insert, O(1)
// clear via a generation stamp instead of zeroing the whole backing array
// every index) adapted to count visits rather than just membership.
package sparse

// VisitSet tracks, for each PC in [0, capacity), how many times it has been
// visited during the current generation. Clear is O(1): it bumps a
// generation stamp rather than zeroing the backing arrays, so the VM can
// call it once per input index without paying for the program size twice
// over.
type VisitSet struct {
	gen     []uint32
	count   []uint8
	current uint32
}

// NewVisitSet returns a VisitSet sized for PCs in [0, capacity).
func NewVisitSet(capacity int) *VisitSet {
	return &VisitSet{
		gen:   make([]uint32, capacity),
		count: make([]uint8, capacity),
	}
}

// Clear starts a new generation; every PC's count resets to 0 lazily, the
// next time it is touched.
func (v *VisitSet) Clear() {
	v.current++
}

// Visit records a visit to pc and reports how many times (including this
// one) pc has been visited in the current generation.
func (v *VisitSet) Visit(pc int) int {
	if v.gen[pc] != v.current {
		v.gen[pc] = v.current
		v.count[pc] = 0
	}
	v.count[pc]++
	return int(v.count[pc])
}
