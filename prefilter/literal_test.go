package prefilter

import "testing"

func TestBuildRejectsTooFewLiterals(t *testing.T) {
	if _, ok := Build([]string{"only"}, DefaultLimits()); ok {
		t.Errorf("a single literal must not build an automaton")
	}
}

func TestBuildRejectsEmptyLiteral(t *testing.T) {
	if _, ok := Build([]string{"cat", ""}, DefaultLimits()); ok {
		t.Errorf("an empty literal means some branch has no fixed prefix")
	}
}

func TestBuildAndFind(t *testing.T) {
	lit, ok := Build([]string{"cat", "dog", "bird"}, DefaultLimits())
	if !ok {
		t.Fatalf("expected a built automaton")
	}

	start, end, found := lit.Find([]byte("I have a dog"), 0)
	if !found {
		t.Fatalf("expected a hit")
	}
	if start != 9 || end != 12 {
		t.Errorf("Find = (%d, %d), want (9, 12)", start, end)
	}

	if _, _, found := lit.Find([]byte("no pets here"), 0); found {
		t.Errorf("expected no hit")
	}
}

func TestBuildRespectsMaxLiterals(t *testing.T) {
	literals := make([]string, 0, 65)
	for i := 0; i < 65; i++ {
		literals = append(literals, string(rune('a'+i%26))+string(rune('A'+i%26)))
	}
	if _, ok := Build(literals, DefaultLimits()); ok {
		t.Errorf("65 literals exceeds MaxLiterals=64, must not build")
	}
}

func TestNilLiteralIsAlwaysPermissive(t *testing.T) {
	var lit *Literal
	if !lit.IsMatch([]byte("anything")) {
		t.Errorf("a nil prefilter must never rule out a match")
	}
	if _, _, found := lit.Find([]byte("anything"), 0); found {
		t.Errorf("a nil prefilter's Find must report no hit, not a false one")
	}
}
