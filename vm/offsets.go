package vm

import "sort"

// runeOffsets returns, for each rune index i in []rune(s), the byte offset
// at which that rune starts, plus a trailing entry equal to len(s). It is
// built once per prefilter-guided search and lets byteToRune translate an
// Aho-Corasick hit (reported in byte offsets, since the automaton scans the
// raw string) back into the rune index the VM's registers are expressed in.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return offsets
}

// byteToRune finds the rune index whose byte offset is byteOff, via binary
// search over the ascending offsets table.
func byteToRune(offsets []int, byteOff int) int {
	return sort.Search(len(offsets), func(i int) bool { return offsets[i] >= byteOff })
}
