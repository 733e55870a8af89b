package optimize

import "github.com/corerx/corerx/charset"
import "github.com/corerx/corerx/syntax"

// collapseGreedyLoops finds the shape a `X*` quantifier lowers to — an entry
// Split, a single-instruction body, and a Jump back to the entry Split — and
// replaces it with one OpGreedyLoop when the body is provably disjoint from
// whatever follows the loop. Disjointness is what lets the VM's fast path
// strip every matching character in one native scan instead of threading the
// NFA through the loop one character at a time; see disjointFrom below for
// exactly what it checks.
func collapseGreedyLoops(insts []syntax.Inst) []syntax.Inst {
	oldToNew := make([]uint32, len(insts))
	out := make([]syntax.Inst, 0, len(insts))

	i := 0
	for i < len(insts) {
		if replacement, consumed, ok := tryCollapseStar(insts, i); ok {
			newPC := uint32(len(out))
			for k := 0; k < consumed; k++ {
				oldToNew[i+k] = newPC
			}
			out = append(out, replacement)
			i += consumed
			continue
		}
		if replacement, consumed, ok := tryCollapsePlus(insts, i); ok {
			base := uint32(len(out))
			oldToNew[i] = base
			oldToNew[i+1] = base + 1
			out = append(out, replacement...)
			i += consumed
			continue
		}
		oldToNew[i] = uint32(len(out))
		out = append(out, insts[i])
		i++
	}

	remapTargets(out, oldToNew)
	return out
}

// tryCollapseStar inspects the three instructions starting at pc and, if
// they form the `X*` shape (entry Split, single-instruction body, Jump back
// to the entry Split) with a disjoint body, returns the replacement
// OpGreedyLoop instruction and the 3 original instructions it consumes.
func tryCollapseStar(insts []syntax.Inst, pc int) (syntax.Inst, int, bool) {
	if pc+2 >= len(insts) {
		return syntax.Inst{}, 0, false
	}
	split := insts[pc]
	body := insts[pc+1]
	loopBack := insts[pc+2]

	// Only the greedy encoding (body tried before exit) collapses: a lazy
	// `X*?` puts body in SecondaryPC, and folding it into OpGreedyLoop would
	// silently turn a minimal-repeat quantifier into a maximal one. Lazy
	// loops stay as ordinary Split/Jump for the general simulator.
	if split.Op != syntax.OpSplit || split.PrimaryPC != uint32(pc+1) {
		return syntax.Inst{}, 0, false
	}
	exitPC := split.SecondaryPC
	if loopBack.Op != syntax.OpJump || loopBack.PrimaryPC != uint32(pc) {
		return syntax.Inst{}, 0, false
	}

	loop, ok := buildLoop(insts, body, exitPC)
	if !ok {
		return syntax.Inst{}, 0, false
	}
	return loop, 3, true
}

// tryCollapsePlus inspects the two instructions starting at pc, and, if they
// form the `X+` shape (single-instruction body immediately followed by a
// Split back to the body) with a disjoint body, returns the body unchanged
// plus a replacement OpGreedyLoop for the Split — the body's first,
// mandatory iteration must stay a real consuming instruction; only the
// "zero or more further repeats" part collapses.
func tryCollapsePlus(insts []syntax.Inst, pc int) ([]syntax.Inst, int, bool) {
	if pc+1 >= len(insts) {
		return nil, 0, false
	}
	body := insts[pc]
	split := insts[pc+1]
	// Same restriction as tryCollapseStar: only the greedy encoding (loop
	// back to body tried before exit) collapses.
	if split.Op != syntax.OpSplit || split.PrimaryPC != uint32(pc) {
		return nil, 0, false
	}
	exitPC := split.SecondaryPC

	loop, ok := buildLoop(insts, body, exitPC)
	if !ok {
		return nil, 0, false
	}
	return []syntax.Inst{body, loop}, 2, true
}

// buildLoop extracts body's membership set and proves it disjoint from
// whatever follows at exitPC, returning the OpGreedyLoop instruction to
// replace the Split that decided whether to keep looping.
func buildLoop(insts []syntax.Inst, body syntax.Inst, exitPC uint32) (syntax.Inst, bool) {
	chars, ci, ok := loopChars(body)
	if !ok {
		return syntax.Inst{}, false
	}
	exit, ok := resolveExit(insts, exitPC)
	if !ok || !disjointFrom(chars, ci, exit) {
		return syntax.Inst{}, false
	}
	return syntax.Inst{
		Op:              syntax.OpGreedyLoop,
		Set:             chars,
		CaseInsensitive: ci,
		PrimaryPC:       exitPC,
	}, true
}

// loopChars extracts the membership set a loop body instruction matches,
// when the body is simple enough for a native strip to replace the NFA
// thread: a single Char, or a non-negated Set whose ASCII bitmap fast path
// is populated. A negated Set or a non-ASCII-simple Set is rejected rather
// than materialized, since its true membership may be unbounded.
func loopChars(body syntax.Inst) (*charset.Charset, bool, bool) {
	switch body.Op {
	case syntax.OpChar:
		b := charset.NewBuilder()
		b.AddChar(body.Rune)
		return b.Build(), body.CaseInsensitive, true
	case syntax.OpSet:
		if body.Negated || !body.Set.IsSimple() {
			return nil, false, false
		}
		return body.Set, body.CaseInsensitive, true
	default:
		return nil, false, false
	}
}

// resolveExit follows a chain of non-consuming Save/Jump instructions
// starting at pc to find the first instruction that either consumes input
// or is Match — the thing the loop's collapsed continuation must be proven
// disjoint from. It gives up (ok=false) on a Split, since which branch runs
// is data-dependent and can't be resolved here, and on an unreasonably long
// chain.
func resolveExit(insts []syntax.Inst, pc uint32) (syntax.Inst, bool) {
	for step := 0; step < jumpThreadLimit; step++ {
		if int(pc) >= len(insts) {
			return syntax.Inst{}, false
		}
		inst := insts[pc]
		switch inst.Op {
		case syntax.OpSave:
			pc = pc + 1
		case syntax.OpJump:
			pc = inst.PrimaryPC
		default:
			return inst, true
		}
	}
	return syntax.Inst{}, false
}

// disjointFrom reports whether exit can be proven to never match a
// character the loop body could also match — the local property that makes
// greedy-loop collapse safe. It is conservative: any shape it doesn't
// recognize returns false (no collapse), never a false "disjoint".
func disjointFrom(chars *charset.Charset, ci bool, exit syntax.Inst) bool {
	switch exit.Op {
	case syntax.OpMatch, syntax.OpAnchorEnd, syntax.OpAnchorLineEnd:
		return true
	case syntax.OpChar:
		return !charMatches(chars, ci, exit.Rune, exit.CaseInsensitive)
	default:
		return false
	}
}

// charMatches reports whether r (compared case-insensitively per exitCI)
// could be matched by chars, honoring the loop body's own case sensitivity.
func charMatches(chars *charset.Charset, loopCI bool, r rune, exitCI bool) bool {
	if chars.Contains(r) {
		return true
	}
	if loopCI || exitCI {
		lo, up := foldPair(r)
		return chars.Contains(lo) || chars.Contains(up)
	}
	return false
}

func foldPair(r rune) (rune, rune) {
	switch {
	case r >= 'a' && r <= 'z':
		return r, r-'a'+'A'
	case r >= 'A' && r <= 'Z':
		return r-'A'+'a', r
	default:
		return r, r
	}
}
