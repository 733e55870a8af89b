package prefix

import (
	"testing"

	"github.com/corerx/corerx/optimize"
	"github.com/corerx/corerx/syntax"
)

func compileOptimized(t *testing.T, pattern string) []syntax.Inst {
	t.Helper()
	prog, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return optimize.Program(prog).Insts
}

func TestAnalyzeLiteralPrefixSuffix(t *testing.T) {
	insts := compileOptimized(t, `^abc\d*xyz$`)
	a := Analyze(insts)
	if a == nil {
		t.Fatalf("expected an analysis for ^abc\\d*xyz$")
	}
	if a.Prefix != "abc" {
		t.Errorf("Prefix = %q, want abc", a.Prefix)
	}
	if a.Suffix != "xyz" {
		t.Errorf("Suffix = %q, want xyz", a.Suffix)
	}
	if !a.AnchoredStart || !a.AnchoredEnd {
		t.Errorf("expected both anchors set")
	}
	if !a.HasGreedySet {
		t.Errorf("expected a greedy set between prefix and suffix")
	}
}

func TestAnalyzeSuffixDisjointFromGreedySet(t *testing.T) {
	insts := compileOptimized(t, "^\\d+abc$")
	a := Analyze(insts)
	if a == nil {
		t.Fatalf("expected an analysis for ^\\d+abc$")
	}
	if !a.SuffixDisjoint {
		t.Errorf("digits and 'abc' share no members, expected SuffixDisjoint")
	}
}

func TestAnalyzeNilForUnanchoredAlternation(t *testing.T) {
	insts := compileOptimized(t, "cat|dog")
	if Analyze(insts) != nil {
		t.Errorf("alternation has no single linear prefix/suffix shape")
	}
}

func TestAnalyzeMixedCaseSensitivityDisabled(t *testing.T) {
	insts := compileOptimized(t, "(?i)abc.*(?-i)xyz")
	if Analyze(insts) != nil {
		t.Errorf("mixed-case prefix/suffix must disable the analysis")
	}
}

func TestAnalyzePureLiteral(t *testing.T) {
	insts := compileOptimized(t, "hello")
	a := Analyze(insts)
	if a == nil {
		t.Fatalf("expected an analysis for a pure literal")
	}
	if a.Prefix != "hello" || a.HasGreedySet || a.HasPrefixSet {
		t.Errorf("unexpected analysis: %+v", a)
	}
}
