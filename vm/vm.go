package vm

import (
	"sync/atomic"

	"github.com/corerx/corerx/prefilter"
	"github.com/corerx/corerx/prefix"
	"github.com/corerx/corerx/syntax"
)

// VM wraps a compiled, optimized program with the two fast paths that sit in
// front of the general simulator: a fastPlan built from the prefix analyzer
// for patterns with no surviving alternation, and a multi-literal Aho-
// Corasick prefilter for patterns that still have one. At most one of the
// two is ever non-nil — a program Analyze recognizes has nothing left to
// feed a literal-alternation prefilter, and vice versa.
//
// A VM is immutable after New and safe for concurrent use: every search
// allocates its own machine, matching the teacher's per-call state pattern
// rather than a shared mutable scratch buffer.
type VM struct {
	prog   *syntax.Program
	fast   *fastPlan
	filter *prefilter.Literal

	fastHits   uint64
	filterHits uint64
	simRuns    uint64
}

// New builds a VM from an already-optimized program. Callers are expected to
// have run the program through optimize.Program first; New does not
// optimize on its own.
func New(prog *syntax.Program) *VM {
	return NewWithOptions(prog, true)
}

// NewWithOptions is New with the Aho-Corasick prefilter build made optional,
// so the façade package's Config.EnablePrefilter can disable it without this
// package knowing anything about Config itself.
func NewWithOptions(prog *syntax.Program, enablePrefilter bool) *VM {
	v := &VM{prog: prog}
	v.fast = newFastPlan(prefix.Analyze(prog.Insts))
	if v.fast == nil && enablePrefilter {
		v.filter, _ = prefilter.Build(prog.AltLiterals, prefilter.DefaultLimits())
	}
	return v
}

// NumGroups and Named expose the program's group bookkeeping so the façade
// doesn't need to reach past the VM into syntax.Program itself.
func (v *VM) NumGroups() int        { return v.prog.NumGroups }
func (v *VM) Named() map[string]int { return v.prog.Named }

// Find runs an unanchored, leftmost-first search for the earliest match
// starting at or after the rune index from, returning a register vector (in
// rune indices) or nil. It is Python re.search's contract.
func (v *VM) Find(s string, from int) []int {
	runes := []rune(s)
	if from < 0 || from > len(runes) {
		return nil
	}
	if v.fast != nil {
		atomic.AddUint64(&v.fastHits, 1)
		return v.fast.search(runes, from, false, false)
	}
	if v.filter != nil {
		return v.filterFind(s, runes, from)
	}
	atomic.AddUint64(&v.simRuns, 1)
	return newMachine(v.prog, runes).run(from, false, false)
}

// filterFind walks the prefilter's hits in increasing byte order, confirming
// each one with an anchored simulator run. A hit only proves some branch's
// literal occurs there; it's the VM's job to confirm the rest of that
// branch actually matches from that exact start.
func (v *VM) filterFind(s string, runes []rune, from int) []int {
	offsets := runeOffsets(s)
	byteAt := offsets[from]
	m := newMachine(v.prog, runes)
	for byteAt <= len(s) {
		start, _, found := v.filter.Find([]byte(s), byteAt)
		if !found {
			return nil
		}
		atomic.AddUint64(&v.filterHits, 1)
		runeStart := byteToRune(offsets, start)
		atomic.AddUint64(&v.simRuns, 1)
		if regs := m.run(runeStart, true, false); regs != nil {
			return regs
		}
		byteAt = start + 1
	}
	return nil
}

// IsMatch reports whether s contains any match of the program, without
// computing a register vector. When a literal prefilter is in play, an
// IsMatch miss rules out a match with no simulator run at all — a cheaper
// answer than Find's, which must locate and confirm an actual hit position.
func (v *VM) IsMatch(s string) bool {
	if v.fast != nil {
		atomic.AddUint64(&v.fastHits, 1)
		return v.fast.search([]rune(s), 0, false, false) != nil
	}
	if v.filter != nil && !v.filter.IsMatch([]byte(s)) {
		atomic.AddUint64(&v.filterHits, 1)
		return false
	}
	return v.Find(s, 0) != nil
}

// MatchAt anchors the search to exactly the rune index from, never trying a
// later start — Python re.match's contract.
func (v *VM) MatchAt(s string, from int) []int {
	runes := []rune(s)
	if from < 0 || from > len(runes) {
		return nil
	}
	if v.fast != nil {
		atomic.AddUint64(&v.fastHits, 1)
		return v.fast.search(runes, from, true, false)
	}
	atomic.AddUint64(&v.simRuns, 1)
	return newMachine(v.prog, runes).run(from, true, false)
}

// FullMatchAt anchors to from and additionally requires the match to consume
// every rune through index to — Python re.fullmatch's contract, including
// its pos/endpos parameters: to stands in for where the string "ends" as far
// as $, \z, and full-consumption are concerned, while ^ and \A still check
// against the real start of s, since slicing runes[:to] rather than
// runes[from:to] keeps absolute rune indices intact.
func (v *VM) FullMatchAt(s string, from, to int) []int {
	runes := []rune(s)
	if to > len(runes) {
		to = len(runes)
	}
	if from < 0 || from > to {
		return nil
	}
	window := runes[:to]
	if v.fast != nil {
		atomic.AddUint64(&v.fastHits, 1)
		return v.fast.search(window, from, true, true)
	}
	atomic.AddUint64(&v.simRuns, 1)
	return newMachine(v.prog, window).run(from, true, true)
}

// Stats reports how many searches each layer handled: the native fast-path
// plan, the Aho-Corasick prefilter (each automaton hit handed to the
// simulator for confirmation, whether or not it confirms, plus each IsMatch
// call the automaton ruled out on its own), and the general
// simulator's own runs (including every prefilter hit that needed
// confirming). It's telemetry only, mirroring the teacher's atomic counter
// style — nothing here changes matching behavior.
func (v *VM) Stats() (fastPathHits, prefilterHits, simulatorRuns uint64) {
	return atomic.LoadUint64(&v.fastHits), atomic.LoadUint64(&v.filterHits), atomic.LoadUint64(&v.simRuns)
}
