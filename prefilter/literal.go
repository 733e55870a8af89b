// Package prefilter builds a multi-literal Aho-Corasick automaton from a
// pattern's top-level alternation literals and uses it to skip regions of
// input that cannot possibly contain a match. It is pure throughput: a
// pattern with no usable literal set simply gets a nil *Literal, and every
// caller treats that as "always consult the VM", never as an error.
package prefilter

import "github.com/coregx/ahocorasick"

// Limits bounds how many literals, and how short the shortest of them may
// be, before building an automaton stops paying for itself. A two-branch
// alternation with a one-rune literal on one side (`a|longthing`) gains
// nothing from Aho-Corasick: the automaton would fire on nearly every
// position in typical text, so every search pays its overhead without
// skipping anything.
type Limits struct {
	MaxLiterals   int
	MinLiteralLen int
}

// DefaultLimits mirrors the extraction limits the teacher lineage's literal
// extractor uses to bound alternation blowup, adapted to the narrower job of
// deciding whether an automaton is worth building at all.
func DefaultLimits() Limits {
	return Limits{MaxLiterals: 64, MinLiteralLen: 1}
}

// Literal wraps a built Aho-Corasick automaton over a pattern's alternation
// literals.
type Literal struct {
	automaton *ahocorasick.Automaton
}

// Build constructs a Literal prefilter from literals, the AltLiterals a
// pattern's parser recorded. It returns (nil, false) whenever the literal
// set doesn't clear limits — too few distinct literals to bother, too many,
// or one of them too short to narrow anything down — leaving the caller to
// fall back to the unfiltered VM.
func Build(literals []string, limits Limits) (*Literal, bool) {
	if len(literals) < 2 || len(literals) > limits.MaxLiterals {
		return nil, false
	}

	minLen := len(literals[0])
	seen := make(map[string]bool, len(literals))
	b := ahocorasick.NewBuilder()
	for _, lit := range literals {
		if lit == "" {
			return nil, false
		}
		if len(lit) < minLen {
			minLen = len(lit)
		}
		if seen[lit] {
			continue
		}
		seen[lit] = true
		b.AddPattern([]byte(lit))
	}
	if len(seen) < 2 || minLen < limits.MinLiteralLen {
		return nil, false
	}

	automaton, err := b.Build()
	if err != nil {
		return nil, false
	}
	return &Literal{automaton: automaton}, true
}

// Find returns the first automaton hit in haystack at or after at, or
// ok=false if none of the literals occur. A hit only proves "some alternative's literal
// prefix occurs here" — the VM still has to confirm (and extend) the match
// from hit.Start.
func (l *Literal) Find(haystack []byte, at int) (start, end int, ok bool) {
	if l == nil {
		return 0, 0, false
	}
	m := l.automaton.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// IsMatch reports whether any literal occurs anywhere in haystack — the
// fast boolean-only path Regexp.Match uses before falling back to a real
// search when it needs positions.
func (l *Literal) IsMatch(haystack []byte) bool {
	if l == nil {
		return true
	}
	return l.automaton.IsMatch(haystack)
}
