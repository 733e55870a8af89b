// Package prefix implements the prefix analyzer: it walks a finished,
// optimized bytecode program looking for the shape
//
//	Save(0), [AnchorStart?], literal_prefix*, (one_char_set | greedy_set)?,
//	literal_suffix*, [AnchorEnd?], Save(1), Match
//
// and, when the program matches it, records enough information for the VM
// to answer match/search/fullmatch with native string operations instead of
// running the NFA simulation. A program that doesn't fit the shape simply
// gets no Analysis (nil), and the VM falls back to the general simulator —
// the fast path is pure throughput, never a source of truth.
package prefix

import "github.com/corerx/corerx/syntax"

// Analysis is the prefix analyzer's output, consumed by the VM's fast
// paths. A zero-value field means "that slot is absent", not "empty
// string" vs "absent" ambiguity: Prefix == "" with HasPrefixSet == false
// and HasGreedySet == false means there genuinely is no literal prefix.
type Analysis struct {
	Prefix               string
	PrefixCaseInsensitive bool

	HasPrefixSet              bool
	PrefixSetChars            string
	PrefixSetCaseInsensitive  bool

	HasGreedySet             bool
	GreedySetChars           string
	GreedySetCaseInsensitive bool
	// MinGreedySet is 0 for `X*` (zero or more) and 1 for `X+` (one or
	// more); the VM's lstrip/rstrip fast paths reject a candidate whose
	// stripped run is shorter than this.
	MinGreedySet int

	Suffix               string
	SuffixCaseInsensitive bool

	AnchoredStart bool
	AnchoredEnd   bool

	// SuffixDisjoint is true when no member of the greedy set is also a
	// member of the suffix — the VM's search() fast path for "literal
	// suffix only, no prefix" synthesizes registers directly only when
	// this holds.
	SuffixDisjoint bool
}

// Analyze walks insts and returns the Analysis if the program fits the
// recognized shape, or nil if it doesn't.
func Analyze(insts []syntax.Inst) *Analysis {
	pos := 0
	if pos >= len(insts) || insts[pos].Op != syntax.OpSave || insts[pos].Slot != 0 {
		return nil
	}
	pos++

	a := &Analysis{}
	if pos < len(insts) && insts[pos].Op == syntax.OpAnchorStart {
		a.AnchoredStart = true
		pos++
	}

	prefix, prefixCI, next := literalRun(insts, pos)
	a.Prefix, a.PrefixCaseInsensitive = prefix, prefixCI
	pos = next

	if pos < len(insts) {
		switch insts[pos].Op {
		case syntax.OpGreedyLoop:
			// A lone GreedyLoop is `X*`: zero or more repeats.
			a.HasGreedySet = true
			a.GreedySetChars = insts[pos].Set.Flat()
			a.GreedySetCaseInsensitive = insts[pos].CaseInsensitive
			pos++
		case syntax.OpSet, syntax.OpChar:
			body := insts[pos]
			if pos+1 < len(insts) && insts[pos+1].Op == syntax.OpGreedyLoop && sameLoopBody(body, insts[pos+1]) {
				// A mandatory single match immediately followed by the
				// collapsed loop for its remaining repeats is `X+`: one or
				// more. The VM's fast path requires at least one strip.
				a.HasGreedySet = true
				a.MinGreedySet = 1
				a.GreedySetChars = insts[pos+1].Set.Flat()
				a.GreedySetCaseInsensitive = insts[pos+1].CaseInsensitive
				pos += 2
			} else if body.Op == syntax.OpSet && !body.Negated && body.Set.IsSimple() {
				a.HasPrefixSet = true
				a.PrefixSetChars = body.Set.Flat()
				a.PrefixSetCaseInsensitive = body.CaseInsensitive
				pos++
			}
		}
	}

	suffix, suffixCI, next := literalRun(insts, pos)
	a.Suffix, a.SuffixCaseInsensitive = suffix, suffixCI
	pos = next

	if pos < len(insts) && insts[pos].Op == syntax.OpAnchorEnd {
		a.AnchoredEnd = true
		pos++
	}

	if pos >= len(insts) || insts[pos].Op != syntax.OpSave || insts[pos].Slot != 1 {
		return nil
	}
	pos++
	if pos >= len(insts) || insts[pos].Op != syntax.OpMatch {
		return nil
	}
	pos++
	if pos != len(insts) {
		return nil
	}

	if a.Prefix != "" && a.Suffix != "" && a.PrefixCaseInsensitive != a.SuffixCaseInsensitive {
		return nil
	}

	if a.HasGreedySet && a.Suffix != "" {
		a.SuffixDisjoint = disjoint(a.GreedySetChars, a.Suffix)
	} else if a.HasGreedySet {
		a.SuffixDisjoint = true
	}

	return a
}

// literalRun collects a run of OpChar/OpString instructions of identical
// case sensitivity starting at pos, returning the concatenated literal, its
// case sensitivity, and the position just past the run.
func literalRun(insts []syntax.Inst, pos int) (string, bool, int) {
	if pos >= len(insts) {
		return "", false, pos
	}
	ci := false
	switch insts[pos].Op {
	case syntax.OpChar, syntax.OpString:
		ci = insts[pos].CaseInsensitive
	default:
		return "", false, pos
	}

	var sb []rune
	for pos < len(insts) {
		inst := insts[pos]
		switch inst.Op {
		case syntax.OpChar:
			if inst.CaseInsensitive != ci {
				return string(sb), ci, pos
			}
			sb = append(sb, inst.Rune)
			pos++
		case syntax.OpString:
			if inst.CaseInsensitive != ci {
				return string(sb), ci, pos
			}
			sb = append(sb, []rune(inst.Str)...)
			pos++
		default:
			return string(sb), ci, pos
		}
	}
	return string(sb), ci, pos
}

// sameLoopBody reports whether a mandatory single-match instruction (an
// OpChar or non-negated simple OpSet) matches exactly the same membership as
// loop's collapsed set, i.e. whether body;loop together are the lowering of
// `X+` for the same X rather than two unrelated instructions that happen to
// sit next to each other.
func sameLoopBody(body, loop syntax.Inst) bool {
	if loop.CaseInsensitive != body.CaseInsensitive {
		return false
	}
	switch body.Op {
	case syntax.OpChar:
		runes := []rune(loop.Set.Flat())
		return len(runes) == 1 && runes[0] == body.Rune
	case syntax.OpSet:
		if body.Negated || !body.Set.IsSimple() {
			return false
		}
		return body.Set.Flat() == loop.Set.Flat()
	default:
		return false
	}
}

// disjoint reports whether no rune in suffix appears in greedySetChars.
func disjoint(greedySetChars, suffix string) bool {
	members := make(map[rune]bool, len(greedySetChars))
	for _, r := range greedySetChars {
		members[r] = true
	}
	for _, r := range suffix {
		if members[r] {
			return false
		}
	}
	return true
}
