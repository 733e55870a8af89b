package vm

// captures implements copy-on-write register vectors: many threads can share
// the same backing array until one of them needs to write a slot, at which
// point only that thread pays for a copy. Splitting a thread at OpSplit is
// far more common than writing a register (OpSave), so sharing the common
// case keeps the simulator's allocation rate close to O(1) per step instead
// of O(registers) per step.
type captures struct {
	shared *sharedRegs
}

type sharedRegs struct {
	data []int
	refs int
}

// newCaptures allocates a fresh register vector of n slots, all unset (-1).
func newCaptures(n int) captures {
	data := make([]int, n)
	for i := range data {
		data[i] = -1
	}
	return captures{shared: &sharedRegs{data: data, refs: 1}}
}

// clone returns a reference to the same backing array with its refcount
// bumped; no copy happens until someone calls set.
func (c captures) clone() captures {
	if c.shared == nil {
		return c
	}
	c.shared.refs++
	return captures{shared: c.shared}
}

// set writes slot, copying the backing array first if it is shared.
func (c captures) set(slot, value int) captures {
	if c.shared == nil || slot < 0 || slot >= len(c.shared.data) {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		data := make([]int, len(c.shared.data))
		copy(data, c.shared.data)
		data[slot] = value
		return captures{shared: &sharedRegs{data: data, refs: 1}}
	}
	c.shared.data[slot] = value
	return c
}

// snapshot copies out the register vector for safekeeping beyond the
// simulation's lifetime (the shared array keeps getting mutated in place).
func (c captures) snapshot() []int {
	if c.shared == nil {
		return nil
	}
	out := make([]int, len(c.shared.data))
	copy(out, c.shared.data)
	return out
}
