// Package optimize implements the peephole optimizer: three independent,
// semantics-preserving passes over a compiled syntax.Program that collapse
// common bytecode shapes the parser emits (disjoint greedy loops, literal
// runs, jump chains) into cheaper instructions for the VM to execute.
//
// Every pass is optional from a correctness standpoint — the VM interprets
// every opcode a pass can introduce (OpGreedyLoop, OpString) exactly as it
// would the instructions they replaced, and falls back to the general
// simulator whenever a fast-path precondition doesn't hold. Disabling any
// subset of these passes must never change the outcome of search, match, or
// fullmatch for any pattern and input (spec's optimizer-neutrality
// invariant); each pass below is written to skip a rewrite whenever its
// precondition is merely uncertain rather than proven false.
package optimize

import "github.com/corerx/corerx/syntax"

// jumpThreadLimit bounds jump-chain following so a malformed or cyclic
// bytecode stream (which should never arise from the parser, but might from
// a hand-built Program in a test) can't spin forever.
const jumpThreadLimit = 100

// Program runs all three peephole passes over prog and returns a new,
// equivalent Program. prog itself is not mutated.
func Program(prog *syntax.Program) *syntax.Program {
	insts := collapseGreedyLoops(prog.Insts)
	insts = foldStrings(insts)
	insts = threadJumps(insts)

	out := *prog
	out.Insts = insts
	return &out
}

// remapTargets applies an old-PC -> new-PC table to every jump-bearing field of
// insts, in place. Instructions that were dropped during compaction must
// still have a valid entry in oldToNew (pointing at whatever absorbed them)
// since nothing in a well-formed program targets a dropped instruction
// directly, but a defensive mapping keeps a stray reference from aiming at
// an out-of-range PC.
func remapTargets(insts []syntax.Inst, oldToNew []uint32) {
	for i := range insts {
		switch insts[i].Op {
		case syntax.OpSplit:
			insts[i].PrimaryPC = oldToNew[insts[i].PrimaryPC]
			insts[i].SecondaryPC = oldToNew[insts[i].SecondaryPC]
		case syntax.OpJump, syntax.OpGreedyLoop:
			insts[i].PrimaryPC = oldToNew[insts[i].PrimaryPC]
		}
	}
}

// targetSet returns the set of PCs addressed by some Split or Jump
// instruction's jump field, used by foldStrings to tell an entry point from
// an interior instruction nothing else can legally jump into.
func targetSet(insts []syntax.Inst) map[uint32]bool {
	set := make(map[uint32]bool)
	for _, inst := range insts {
		switch inst.Op {
		case syntax.OpSplit:
			set[inst.PrimaryPC] = true
			set[inst.SecondaryPC] = true
		case syntax.OpJump, syntax.OpGreedyLoop:
			set[inst.PrimaryPC] = true
		}
	}
	return set
}
