package optimize

import "github.com/corerx/corerx/syntax"

// threadJumps collapses Jump -> Jump chains transitively: every Split or
// Jump target that itself names a pure Jump instruction is redirected to
// that Jump's own target, repeated until a non-Jump is reached or
// jumpThreadLimit steps have run (a cycle can only arise from a malformed
// hand-built Program, never from the parser, but the limit keeps such input
// from spinning forever rather than rejecting it outright).
//
// This pass only rewrites target fields; it never removes an instruction,
// so no PC renumbering is required.
func threadJumps(insts []syntax.Inst) []syntax.Inst {
	out := make([]syntax.Inst, len(insts))
	copy(out, insts)

	for i := range out {
		switch out[i].Op {
		case syntax.OpSplit:
			out[i].PrimaryPC = threadTarget(out, out[i].PrimaryPC)
			out[i].SecondaryPC = threadTarget(out, out[i].SecondaryPC)
		case syntax.OpJump:
			out[i].PrimaryPC = threadTarget(out, out[i].PrimaryPC)
		case syntax.OpGreedyLoop:
			out[i].PrimaryPC = threadTarget(out, out[i].PrimaryPC)
		}
	}
	return out
}

func threadTarget(insts []syntax.Inst, pc uint32) uint32 {
	for step := 0; step < jumpThreadLimit; step++ {
		if int(pc) >= len(insts) || insts[pc].Op != syntax.OpJump {
			return pc
		}
		next := insts[pc].PrimaryPC
		if next == pc {
			return pc // self-loop; nothing to thread
		}
		pc = next
	}
	return pc
}
