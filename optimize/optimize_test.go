package optimize

import (
	"testing"

	"github.com/corerx/corerx/syntax"
)

func countOp(insts []syntax.Inst, op syntax.Op) int {
	n := 0
	for _, inst := range insts {
		if inst.Op == op {
			n++
		}
	}
	return n
}

func mustParse(t *testing.T, pattern string) *syntax.Program {
	t.Helper()
	prog, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return prog
}

func TestCollapseGreedyLoopBeforeMatch(t *testing.T) {
	prog := mustParse(t, "a*")
	out := Program(prog)
	if countOp(out.Insts, syntax.OpGreedyLoop) != 1 {
		t.Fatalf("expected one OpGreedyLoop, insts=%v", out.Insts)
	}
	if countOp(out.Insts, syntax.OpSplit) != 0 {
		t.Errorf("expected the entry Split to be gone")
	}
}

func TestCollapseGreedyLoopBeforeDisjointChar(t *testing.T) {
	prog := mustParse(t, "a*b")
	out := Program(prog)
	if countOp(out.Insts, syntax.OpGreedyLoop) != 1 {
		t.Fatalf("expected one OpGreedyLoop, insts=%v", out.Insts)
	}
}

func TestNoCollapseWhenNotDisjoint(t *testing.T) {
	prog := mustParse(t, "a*a")
	out := Program(prog)
	if countOp(out.Insts, syntax.OpGreedyLoop) != 0 {
		t.Errorf("a*a is not disjoint, must not collapse")
	}
}

func TestNoCollapseForNegatedSet(t *testing.T) {
	prog := mustParse(t, `[^a]*`)
	out := Program(prog)
	if countOp(out.Insts, syntax.OpGreedyLoop) != 0 {
		t.Errorf("negated set loops are conservatively not collapsed")
	}
}

func TestFoldStringsMergesLiteralRun(t *testing.T) {
	prog := mustParse(t, "hello")
	out := Program(prog)
	if countOp(out.Insts, syntax.OpChar) != 0 {
		t.Errorf("expected all OpChar folded away, insts=%v", out.Insts)
	}
	found := false
	for _, inst := range out.Insts {
		if inst.Op == syntax.OpString && inst.Str == "hello" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected OpString %q, insts=%v", "hello", out.Insts)
	}
}

func TestFoldStringsRespectsJumpTargets(t *testing.T) {
	// The first branch's run "ab" is followed by its Jump past the second
	// branch, and the second branch's 'c' is a Split target; folding must
	// not merge across either into a string longer than "ab".
	prog := mustParse(t, "ab|c")
	out := Program(prog)
	for _, inst := range out.Insts {
		if inst.Op == syntax.OpString && len(inst.Str) > 2 {
			t.Errorf("unexpected over-long string fold: %q", inst.Str)
		}
	}
}

func TestThreadJumpsFlattensChain(t *testing.T) {
	insts := []syntax.Inst{
		{Op: syntax.OpJump, PrimaryPC: 1},
		{Op: syntax.OpJump, PrimaryPC: 2},
		{Op: syntax.OpMatch},
	}
	out := threadJumps(insts)
	if out[0].PrimaryPC != 2 {
		t.Errorf("PrimaryPC = %d, want 2", out[0].PrimaryPC)
	}
}

func TestNoCollapseForLazyStar(t *testing.T) {
	prog := mustParse(t, "a*?b")
	out := Program(prog)
	if countOp(out.Insts, syntax.OpGreedyLoop) != 0 {
		t.Errorf("a*? is lazy, must not collapse to OpGreedyLoop: %v", out.Insts)
	}
}

func TestNoCollapseForLazyPlus(t *testing.T) {
	prog := mustParse(t, "a+?b")
	out := Program(prog)
	if countOp(out.Insts, syntax.OpGreedyLoop) != 0 {
		t.Errorf("a+? is lazy, must not collapse to OpGreedyLoop: %v", out.Insts)
	}
}

func TestOptimizeProgramEndsInMatch(t *testing.T) {
	for _, p := range []string{"a*", "a+", "(ab)*c", "x{2,4}", "[a-z]*$"} {
		prog := mustParse(t, p)
		out := Program(prog)
		if out.Insts[len(out.Insts)-1].Op != syntax.OpMatch {
			t.Errorf("Program(%q) must still end in OpMatch", p)
		}
	}
}
