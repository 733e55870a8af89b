package syntax

// A frag is a self-contained run of instructions, addressed as if it began
// at PC 0. OpSplit and OpJump targets inside a frag are always valid local
// PCs; every helper below that combines frags is responsible for rebasing
// those targets as it splices pieces together. This is the same
// patch-free-by-construction trick the gore/regexp2 lineage uses: because a
// frag's internal jumps are resolved before it is ever spliced into a
// parent, there is no backpatch list to carry around.
type frag []Inst

func rebase(f frag, delta uint32) frag {
	if delta == 0 {
		return append(frag(nil), f...)
	}
	out := make(frag, len(f))
	copy(out, f)
	for i := range out {
		switch out[i].Op {
		case OpSplit:
			out[i].PrimaryPC += delta
			out[i].SecondaryPC += delta
		case OpJump:
			out[i].PrimaryPC += delta
		}
	}
	return out
}

// concat splices frags one after another, rebasing each to its offset in
// the combined result.
func concat(frags ...frag) frag {
	total := 0
	for _, f := range frags {
		total += len(f)
	}
	out := make(frag, 0, total)
	var base uint32
	for _, f := range frags {
		out = append(out, rebase(f, base)...)
		base += uint32(len(f))
	}
	return out
}

// alt2 builds the two-way Split tree for a|b: a is tried first.
func alt2(a, b frag) frag {
	out := make(frag, 0, len(a)+len(b)+2)
	aStart := uint32(1)
	jmpPC := aStart + uint32(len(a))
	bStart := jmpPC + 1
	end := bStart + uint32(len(b))
	out = append(out, Inst{Op: OpSplit, PrimaryPC: aStart, SecondaryPC: bStart})
	out = append(out, rebase(a, aStart)...)
	out = append(out, Inst{Op: OpJump, PrimaryPC: end})
	out = append(out, rebase(b, bStart)...)
	return out
}

// alt builds the N-way Split tree for branches, tried left to right.
func alt(branches []frag) frag {
	if len(branches) == 0 {
		return nil
	}
	out := branches[len(branches)-1]
	for i := len(branches) - 2; i >= 0; i-- {
		out = alt2(branches[i], out)
	}
	return out
}

// star builds X* (Kleene star). Greedy tries the body before the exit.
func star(body frag, greedy bool) frag {
	out := make(frag, 0, len(body)+2)
	splitPC := uint32(0)
	bodyStart := uint32(1)
	jmpPC := bodyStart + uint32(len(body))
	end := jmpPC + 1
	if greedy {
		out = append(out, Inst{Op: OpSplit, PrimaryPC: bodyStart, SecondaryPC: end})
	} else {
		out = append(out, Inst{Op: OpSplit, PrimaryPC: end, SecondaryPC: bodyStart})
	}
	out = append(out, rebase(body, bodyStart)...)
	out = append(out, Inst{Op: OpJump, PrimaryPC: splitPC})
	return out
}

// plus builds X+ (one or more): the body runs once unconditionally, then
// loops back through a split.
func plus(body frag, greedy bool) frag {
	out := make(frag, len(body), len(body)+1)
	copy(out, body)
	splitPC := uint32(len(body))
	end := splitPC + 1
	if greedy {
		out = append(out, Inst{Op: OpSplit, PrimaryPC: 0, SecondaryPC: end})
	} else {
		out = append(out, Inst{Op: OpSplit, PrimaryPC: end, SecondaryPC: 0})
	}
	return out
}

// quest builds X? (zero or one).
func quest(body frag, greedy bool) frag {
	out := make(frag, 0, len(body)+1)
	bodyStart := uint32(1)
	end := bodyStart + uint32(len(body))
	if greedy {
		out = append(out, Inst{Op: OpSplit, PrimaryPC: bodyStart, SecondaryPC: end})
	} else {
		out = append(out, Inst{Op: OpSplit, PrimaryPC: end, SecondaryPC: bodyStart})
	}
	out = append(out, rebase(body, bodyStart)...)
	return out
}

// nestedOptional builds up to n further copies of atom, each one only
// reachable if the previous one matched: atom{0,3} lowers to
// (atom(atom(atom)?)?)?. Nesting the optionals (rather than chaining them
// as siblings) is what keeps {n,m} counting exact: skipping copy i also
// skips every copy after it.
func nestedOptional(atom frag, n int, greedy bool) frag {
	if n == 0 {
		return nil
	}
	inner := nestedOptional(atom, n-1, greedy)
	body := concat(atom, inner)
	return quest(body, greedy)
}

// save wraps body with the Save pair that records a capture group's extent.
func save(body frag, startSlot, endSlot int) frag {
	out := make(frag, 0, len(body)+2)
	out = append(out, Inst{Op: OpSave, Slot: startSlot})
	out = append(out, rebase(body, 1)...)
	out = append(out, Inst{Op: OpSave, Slot: endSlot})
	return out
}

// leadingLiteral reports the literal rune run a frag necessarily starts
// with: the case-sensitive Char and String instructions at the head of the
// frag, up to the first instruction of any other kind. ok is false when the
// frag does not begin with one. It backs the parser's opportunistic
// alternation-literal extraction (SPEC_FULL.md §4.1) and nothing else
// depends on it for correctness.
func leadingLiteral(f frag) (string, bool) {
	var run []rune
	for _, inst := range f {
		if inst.CaseInsensitive {
			break
		}
		if inst.Op == OpChar {
			run = append(run, inst.Rune)
		} else if inst.Op == OpString {
			run = append(run, []rune(inst.Str)...)
		} else {
			break
		}
	}
	if len(run) == 0 {
		return "", false
	}
	return string(run), true
}
