package corerx

import (
	"reflect"
	"testing"
)

func mustCompile(t *testing.T, pattern string) *Regexp {
	t.Helper()
	re, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return re
}

// TestScenarioTable exercises every row of the end-to-end scenario table.
func TestScenarioTable(t *testing.T) {
	t.Run("capture groups", func(t *testing.T) {
		re := mustCompile(t, `(orange)-(.*)`)
		m := re.Search("orange-rules", 0)
		if m == nil {
			t.Fatal("expected a match")
		}
		g0, _ := m.Group(0)
		g1, _ := m.Group(1)
		g2, _ := m.Group(2)
		if g0 != "orange-rules" || g1 != "orange" || g2 != "rules" {
			t.Errorf("groups = %q %q %q", g0, g1, g2)
		}
	})

	t.Run("lazy vs greedy", func(t *testing.T) {
		lazy := mustCompile(t, `<.*?>`)
		greedy := mustCompile(t, `<.*>`)
		input := "<tag>content</tag>"
		if got := lazy.FindString(input); got != "<tag>" {
			t.Errorf("lazy FindString = %q, want <tag>", got)
		}
		if got := greedy.FindString(input); got != "<tag>content</tag>" {
			t.Errorf("greedy FindString = %q, want full string", got)
		}
	})

	t.Run("case-insensitive flag", func(t *testing.T) {
		re := mustCompile(t, `(?i)[a-z]+`)
		if got := re.FindString("ORANGE"); got != "ORANGE" {
			t.Errorf("FindString = %q, want ORANGE", got)
		}
	})

	t.Run("multiline anchors", func(t *testing.T) {
		re := mustCompile(t, `(?m)^line2`)
		loc := re.FindStringIndex("line1\nline2")
		if loc == nil || loc[0] != 6 {
			t.Errorf("FindStringIndex = %v, want start 6", loc)
		}
	})

	t.Run("fast path anchored digits", func(t *testing.T) {
		re := mustCompile(t, `^\d+abc$`)
		if !re.MatchString("123abc") {
			t.Errorf("expected a match")
		}
		fast, _, _ := re.Stats()
		if fast == 0 {
			t.Errorf("expected the fast path to have been used")
		}
	})

	t.Run("ungreedy loop still consumes", func(t *testing.T) {
		re := mustCompile(t, `a*?b`)
		if got := re.FindString("aaab"); got != "aaab" {
			t.Errorf("FindString = %q, want aaab", got)
		}
	})

	t.Run("word boundary no match", func(t *testing.T) {
		re := mustCompile(t, `\bcat\b`)
		if re.MatchString("scatter") {
			t.Errorf("expected no match in scatter")
		}
	})

	t.Run("uri named groups", func(t *testing.T) {
		re := mustCompile(t, `^((?P<scheme>[^:/?#]+):)?(//(?P<authority>[^/?#]*))?(?P<path>[^?#]*)(\?(?P<query>[^#]*))?(#(?P<fragment>.*))?`)
		m := re.Search("https://www.google.com/search?q=bazel#frag", 0)
		if m == nil {
			t.Fatal("expected a match")
		}
		dict := m.GroupDict("")
		want := map[string]string{
			"scheme":    "https",
			"authority": "www.google.com",
			"path":      "/search",
			"query":     "q=bazel",
			"fragment":  "frag",
		}
		for k, v := range want {
			if dict[k] != v {
				t.Errorf("group %q = %q, want %q", k, dict[k], v)
			}
		}
	})
}

// TestInvariantSearchMatchAgreement: invariant 1.
func TestInvariantSearchMatchAgreement(t *testing.T) {
	re := mustCompile(t, `\d+`)
	s := "abc123def"
	m := re.Search(s, 0)
	if m == nil {
		t.Fatal("expected a match")
	}
	anchored := re.MatchAt(s, m.Start(0))
	if anchored == nil || anchored.End(0) != m.End(0) {
		t.Errorf("MatchAt at search's start disagreed with search")
	}
}

// TestInvariantFullMatch: invariant 2.
func TestInvariantFullMatch(t *testing.T) {
	re := mustCompile(t, `a+`)
	full := re.FullMatchAt("aaa", 0, 3)
	if full == nil {
		t.Fatal("expected fullmatch on aaa")
	}
	if re.FullMatchAt("aaab", 0, 4) != nil {
		t.Errorf("expected no fullmatch on aaab")
	}
}

// TestInvariantFindAllNonOverlap: invariant 3.
func TestInvariantFindAllNonOverlap(t *testing.T) {
	re := mustCompile(t, `a*`)
	spans := re.FindAllStringIndex("baab", -1)
	for i := 1; i < len(spans); i++ {
		if spans[i-1][1] > spans[i][0] {
			t.Errorf("overlapping matches: %v then %v", spans[i-1], spans[i])
		}
	}
}

// TestInvariantCaptureRoundTrip: invariant 4.
func TestInvariantCaptureRoundTrip(t *testing.T) {
	re := mustCompile(t, `(\w+)@(\w+)`)
	s := "user@example"
	m := re.Search(s, 0)
	if m == nil {
		t.Fatal("expected a match")
	}
	runes := []rune(s)
	for i := 0; i < m.groupCount(); i++ {
		start, end := m.Span(i)
		if start < 0 {
			continue
		}
		got, _ := m.Group(i)
		if got != string(runes[start:end]) {
			t.Errorf("group %d round-trip mismatch: %q vs %q", i, got, string(runes[start:end]))
		}
	}
}

// TestInvariantLeftmostFirst: invariant 5.
func TestInvariantLeftmostFirst(t *testing.T) {
	re := mustCompile(t, `cat|category`)
	if got := re.FindString("category"); got != "cat" {
		t.Errorf("FindString = %q, want cat (first alternative wins)", got)
	}
}

// TestInvariantGreedyLazyDuality: invariant 6.
func TestInvariantGreedyLazyDuality(t *testing.T) {
	greedy := mustCompile(t, `a*`)
	lazy := mustCompile(t, `a*?`)
	gm := greedy.Search("aaa", 0)
	lm := lazy.Search("aaa", 0)
	if gm.Start(0) != lm.Start(0) {
		t.Fatalf("starts differ: %d vs %d", gm.Start(0), lm.Start(0))
	}
	if gm.End(0)-gm.Start(0) != 3 {
		t.Errorf("greedy length = %d, want 3", gm.End(0)-gm.Start(0))
	}
	if lm.End(0)-lm.Start(0) != 0 {
		t.Errorf("lazy length = %d, want 0", lm.End(0)-lm.Start(0))
	}
}

func TestBoundaryEmptyPattern(t *testing.T) {
	re := mustCompile(t, ``)
	for i, s := range []string{"", "a", "abc"} {
		loc := re.FindAllStringIndex(s, -1)
		if len(loc) != len([]rune(s))+1 {
			t.Errorf("case %d: empty pattern should match at every position in %q, got %v", i, s, loc)
		}
	}
}

func TestMatchLastIndexAndLastGroup(t *testing.T) {
	re := mustCompile(t, `(?P<year>\d+)-(?P<month>\d+)`)
	m := re.Search("2024-08", 0)
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.LastIndex() != 2 {
		t.Errorf("LastIndex() = %d, want 2", m.LastIndex())
	}
	if m.LastGroup() != "month" {
		t.Errorf("LastGroup() = %q, want month", m.LastGroup())
	}
}

func TestBoundaryAnchoredEmptyOnlyAtEnd(t *testing.T) {
	re := mustCompile(t, `^$`)
	if !re.MatchString("") {
		t.Errorf("^$ should match empty string")
	}
	if re.MatchString("a") {
		t.Errorf("^$ should not match a")
	}
}

func TestBoundaryRepetitionEquivalences(t *testing.T) {
	star := mustCompile(t, `a*`)
	braces := mustCompile(t, `a{0,}`)
	if star.FindString("aaa") != braces.FindString("aaa") {
		t.Errorf("a* and a{0,} disagree")
	}
	zero := mustCompile(t, `a{0}b`)
	if got := zero.FindString("b"); got != "b" {
		t.Errorf("a{0}b FindString = %q, want b", got)
	}
}

func TestReplaceAllNumericAndNamed(t *testing.T) {
	re := mustCompile(t, `(?P<user>\w+)@(?P<host>\w+)`)
	got := re.ReplaceAll("user@example", `\g<user> at \g<host>`)
	if got != "user at example" {
		t.Errorf("ReplaceAll = %q", got)
	}
	got = re.ReplaceAll("user@example", `\1 (\0)`)
	if got != "user (user@example)" {
		t.Errorf("ReplaceAll numeric = %q", got)
	}
}

func TestSplit(t *testing.T) {
	re := mustCompile(t, `,`)
	got := re.Split("a,b,c", -1)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split = %v, want %v", got, want)
	}
	if got := re.Split("a,b,c", 2); !reflect.DeepEqual(got, []string{"a", "b,c"}) {
		t.Errorf("Split with n=2 = %v", got)
	}
}

func TestMatchGroupBy(t *testing.T) {
	re := mustCompile(t, `(?P<year>\d+)-(?P<month>\d+)`)
	m := re.Search("2024-08", 0)
	if m == nil {
		t.Fatal("expected a match")
	}
	if got, ok := m.GroupBy("year"); !ok || got != "2024" {
		t.Errorf("GroupBy(%q) = %q, %v, want 2024, true", "year", got, ok)
	}
	if got, ok := m.GroupBy(2); !ok || got != "08" {
		t.Errorf("GroupBy(2) = %q, %v, want 08, true", got, ok)
	}
	if _, ok := m.GroupBy("nope"); ok {
		t.Errorf("GroupBy(%q) should fail for an unknown name", "nope")
	}
	if _, ok := m.GroupBy(3.14); ok {
		t.Errorf("GroupBy should fail for an unsupported type")
	}
}

func TestMatchStringUsesPrefilterFastPath(t *testing.T) {
	re := mustCompile(t, `cat|dog|bird`)
	if re.MatchString("a horse and a fox") {
		t.Errorf("expected no match")
	}
	if !re.MatchString("a dog and a fox") {
		t.Errorf("expected a match")
	}
	_, prefilterHits, _ := re.Stats()
	if prefilterHits == 0 {
		t.Errorf("expected the prefilter to have been consulted")
	}
}

func TestQuoteMeta(t *testing.T) {
	got := QuoteMeta(`a.b*c`)
	want := `a\.b\*c`
	if got != want {
		t.Errorf("QuoteMeta = %q, want %q", got, want)
	}
	re := mustCompile(t, QuoteMeta(`3.14?`))
	if !re.MatchString("3.14?") {
		t.Errorf("quoted pattern should match its literal source")
	}
}

func TestCompileRejectsLookaround(t *testing.T) {
	if _, err := Compile(`(?=abc)`); err == nil {
		t.Errorf("expected an error for a lookahead")
	}
}

func TestCompileWithConfigProgramSizeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxProgramSize = 1
	if _, err := CompileWithConfig(`abc`, cfg); err == nil {
		t.Errorf("expected a program-size-limit error")
	}
}

func TestOptimizerNeutrality(t *testing.T) {
	patterns := []string{`a+b`, `[a-z]+end`, `cat|dog`, `(foo)bar`}
	for _, p := range patterns {
		withOpt := DefaultConfig()
		withoutOpt := DefaultConfig()
		withoutOpt.EnableOptimizer = false

		reOpt, err := CompileWithConfig(p, withOpt)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", p, err)
		}
		reNoOpt, err := CompileWithConfig(p, withoutOpt)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", p, err)
		}
		for _, input := range []string{"catdogend", "foobar", "aaab", "zzzend"} {
			a := reOpt.FindStringIndex(input)
			b := reNoOpt.FindStringIndex(input)
			if !reflect.DeepEqual(a, b) {
				t.Errorf("pattern %q input %q: optimized=%v unoptimized=%v", p, input, a, b)
			}
		}
	}
}
