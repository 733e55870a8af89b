package optimize

import (
	"strings"

	"github.com/corerx/corerx/syntax"
)

// foldStrings collapses consecutive OpChar instructions of identical case
// sensitivity into a single OpString, provided no other instruction jumps
// into the middle of the run (only the run's first instruction may be a
// jump target — everything inside it relied purely on fallthrough, which
// folding removes).
func foldStrings(insts []syntax.Inst) []syntax.Inst {
	targets := targetSet(insts)
	oldToNew := make([]uint32, len(insts))
	out := make([]syntax.Inst, 0, len(insts))

	i := 0
	for i < len(insts) {
		runLen := charRunLength(insts, targets, i)
		if runLen < 2 {
			oldToNew[i] = uint32(len(out))
			out = append(out, insts[i])
			i++
			continue
		}

		var sb strings.Builder
		for k := 0; k < runLen; k++ {
			sb.WriteRune(insts[i+k].Rune)
		}
		newPC := uint32(len(out))
		for k := 0; k < runLen; k++ {
			oldToNew[i+k] = newPC
		}
		out = append(out, syntax.Inst{
			Op:              syntax.OpString,
			Str:             sb.String(),
			CaseInsensitive: insts[i].CaseInsensitive,
		})
		i += runLen
	}

	remapTargets(out, oldToNew)
	return out
}

// charRunLength reports how many consecutive OpChar instructions starting at
// i share the same case sensitivity and contain no jump target past the
// first position.
func charRunLength(insts []syntax.Inst, targets map[uint32]bool, i int) int {
	if insts[i].Op != syntax.OpChar {
		return 1
	}
	ci := insts[i].CaseInsensitive
	n := 1
	for i+n < len(insts) {
		inst := insts[i+n]
		if inst.Op != syntax.OpChar || inst.CaseInsensitive != ci {
			break
		}
		if targets[uint32(i+n)] {
			break
		}
		n++
	}
	return n
}
