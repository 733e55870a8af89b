package syntax

import (
	"errors"
	"testing"
)

func countOp(prog *Program, op Op) int {
	n := 0
	for _, inst := range prog.Insts {
		if inst.Op == op {
			n++
		}
	}
	return n
}

func TestParseBasicLiterals(t *testing.T) {
	prog, err := Parse("abc")
	if err != nil {
		t.Fatalf("Parse(abc) error: %v", err)
	}
	if countOp(prog, OpChar) != 3 {
		t.Errorf("expected 3 OpChar instructions, got %d", countOp(prog, OpChar))
	}
	if prog.Insts[len(prog.Insts)-1].Op != OpMatch {
		t.Errorf("program must end with OpMatch")
	}
	if prog.NumGroups != 1 {
		t.Errorf("NumGroups = %d, want 1", prog.NumGroups)
	}
}

func TestParseGroupsAndNames(t *testing.T) {
	prog, err := Parse(`(orange)-(?P<rest>.*)`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if prog.NumGroups != 3 {
		t.Errorf("NumGroups = %d, want 3", prog.NumGroups)
	}
	if prog.Named["rest"] != 2 {
		t.Errorf("Named[rest] = %d, want 2", prog.Named["rest"])
	}
}

func TestParseAlternationLiterals(t *testing.T) {
	prog, err := Parse("cat|dog|bird")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(prog.AltLiterals) != 3 {
		t.Fatalf("AltLiterals = %v, want 3 entries", prog.AltLiterals)
	}
	want := []string{"cat", "dog", "bird"}
	for i, w := range want {
		if prog.AltLiterals[i] != w {
			t.Errorf("AltLiterals[%d] = %q, want %q", i, prog.AltLiterals[i], w)
		}
	}
}

func TestParseAlternationLiteralsAbsentWhenMixed(t *testing.T) {
	prog, err := Parse("cat|[dg]og")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if prog.AltLiterals != nil {
		t.Errorf("AltLiterals = %v, want nil", prog.AltLiterals)
	}
}

func TestParseQuantifiers(t *testing.T) {
	for _, p := range []string{"a*", "a+", "a?", "a*?", "a+?", "a??", "a{2,4}", "a{2,}", "a{3}"} {
		if _, err := Parse(p); err != nil {
			t.Errorf("Parse(%q) error: %v", p, err)
		}
	}
}

func TestParseBadRepetition(t *testing.T) {
	_, err := Parse("a{4,2}")
	if !errors.Is(err, ErrBadRepetition) {
		t.Errorf("Parse(a{4,2}) error = %v, want ErrBadRepetition", err)
	}
}

func TestParseBraceAsLiteralWhenNotARepetition(t *testing.T) {
	prog, err := Parse("a{z}")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if countOp(prog, OpChar) != 4 { // a, {, z, }
		t.Errorf("expected 4 literal chars, got %d", countOp(prog, OpChar))
	}
}

func TestParseCharClassNegatedPosix(t *testing.T) {
	prog, err := Parse(`[[:^alpha:]]+`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	var set *Inst
	for i := range prog.Insts {
		if prog.Insts[i].Op == OpSet {
			set = &prog.Insts[i]
			break
		}
	}
	if set == nil {
		t.Fatalf("expected an OpSet instruction")
	}
	if !set.Set.Contains('1') {
		t.Errorf("[[:^alpha:]] should contain '1'")
	}
	if set.Set.Contains('a') {
		t.Errorf("[[:^alpha:]] should not contain 'a'")
	}
}

func TestParseEscapedShorthandInsideClassRejectsNegated(t *testing.T) {
	_, err := Parse(`[\D]`)
	if !errors.Is(err, ErrBadEscape) {
		t.Errorf("Parse([\\D]) error = %v, want ErrBadEscape", err)
	}
}

func TestParseDuplicateGroupName(t *testing.T) {
	_, err := Parse(`(?P<x>a)(?P<x>b)`)
	if !errors.Is(err, ErrBadGroupName) {
		t.Errorf("expected ErrBadGroupName, got %v", err)
	}
}

func TestParseLookaroundUnsupported(t *testing.T) {
	for _, p := range []string{"(?=abc)", "(?!abc)", "(?<=abc)x", "(?<!abc)x"} {
		_, err := Parse(p)
		if !errors.Is(err, ErrUnsupportedFeature) {
			t.Errorf("Parse(%q) error = %v, want ErrUnsupportedFeature", p, err)
		}
	}
}

func TestParseInlineFlagsScoped(t *testing.T) {
	prog, err := Parse(`(?i:abc)def`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ci := 0
	notCi := 0
	for _, inst := range prog.Insts {
		if inst.Op != OpChar {
			continue
		}
		if inst.CaseInsensitive {
			ci++
		} else {
			notCi++
		}
	}
	if ci != 3 || notCi != 3 {
		t.Errorf("ci=%d notCi=%d, want 3 and 3", ci, notCi)
	}
}

func TestParseInlineFlagsLeakToEnclosingGroup(t *testing.T) {
	prog, err := Parse(`(?i)abc`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	for _, inst := range prog.Insts {
		if inst.Op == OpChar && !inst.CaseInsensitive {
			t.Errorf("expected every char to be case-insensitive after (?i)")
		}
	}
}

func TestParseMultilineAnchors(t *testing.T) {
	prog, err := Parse(`(?m)^line2`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if prog.Insts[0].Op != OpSave {
		t.Fatalf("expected leading Save")
	}
	found := false
	for _, inst := range prog.Insts {
		if inst.Op == OpAnchorLineStart {
			found = true
		}
	}
	if !found {
		t.Errorf("expected OpAnchorLineStart under (?m)")
	}
}

func TestParseWordBoundary(t *testing.T) {
	prog, err := Parse(`\bcat\b`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if countOp(prog, OpWordBoundary) != 2 {
		t.Errorf("expected 2 OpWordBoundary instructions")
	}
}

func TestParseTrailingBackslashIsBadEscape(t *testing.T) {
	_, err := Parse(`abc\`)
	if !errors.Is(err, ErrBadEscape) {
		t.Errorf("Parse(abc\\) error = %v, want ErrBadEscape", err)
	}
}

func TestParseOctalEscapeBounds(t *testing.T) {
	prog, err := Parse(`\377`)
	if err != nil {
		t.Fatalf("Parse(\\377) error: %v", err)
	}
	var got rune
	for _, inst := range prog.Insts {
		if inst.Op == OpChar {
			got = inst.Rune
		}
	}
	if got != 0o377 {
		t.Errorf("\\377 parsed to rune %d, want %d", got, 0o377)
	}

	if _, err := Parse(`\400`); !errors.Is(err, ErrBadEscape) {
		t.Errorf("Parse(\\400) error = %v, want ErrBadEscape", err)
	}
	if _, err := Parse(`\477`); !errors.Is(err, ErrBadEscape) {
		t.Errorf("Parse(\\477) error = %v, want ErrBadEscape", err)
	}
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := Parse(`a{5,2}`)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Pos != 1 {
		t.Errorf("Pos = %d, want 1", pe.Pos)
	}
}
