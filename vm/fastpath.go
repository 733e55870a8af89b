package vm

import "github.com/corerx/corerx/prefix"

// fastPlan is a compiled form of a prefix.Analysis: the literal runs turned
// into []rune (Analysis stores them as strings, but the VM's registers are
// rune-indexed, so every comparison here works in runes) plus the flags the
// analyzer recorded. It fully replaces the NFA simulation for the narrow
// shape Analyze recognizes: there is no alternation left in that shape, so
// there is exactly one way to read the pattern forward from any candidate
// start, and native scans find it without ever touching the queue machinery
// in run.go.
type fastPlan struct {
	prefix   []rune
	prefixCI bool

	hasPrefixSet bool
	prefixSet    string
	prefixSetCI  bool

	hasGreedySet bool
	greedySet    string
	greedySetCI  bool
	minGreedy    int

	suffix   []rune
	suffixCI bool

	anchoredStart bool
	anchoredEnd   bool
}

// newFastPlan adapts a, or returns nil if a itself is nil or its greedy set
// isn't provably disjoint from its suffix — in that case the general
// simulator's own backtracking-free priority scheme is still the only safe
// way to find where the greedy run has to give back characters.
func newFastPlan(a *prefix.Analysis) *fastPlan {
	if a == nil {
		return nil
	}
	if a.HasGreedySet && a.Suffix != "" && !a.SuffixDisjoint {
		return nil
	}
	return &fastPlan{
		prefix:        []rune(a.Prefix),
		prefixCI:      a.PrefixCaseInsensitive,
		hasPrefixSet:  a.HasPrefixSet,
		prefixSet:     a.PrefixSetChars,
		prefixSetCI:   a.PrefixSetCaseInsensitive,
		hasGreedySet:  a.HasGreedySet,
		greedySet:     a.GreedySetChars,
		greedySetCI:   a.GreedySetCaseInsensitive,
		minGreedy:     a.MinGreedySet,
		suffix:        []rune(a.Suffix),
		suffixCI:      a.SuffixCaseInsensitive,
		anchoredStart: a.AnchoredStart,
		anchoredEnd:   a.AnchoredEnd,
	}
}

// matchAt tries to read the whole shape starting exactly at pos, returning
// the rune index just past the match. Because the analyzed shape has no
// alternation, this either succeeds in exactly one way or fails outright —
// there is never a second reading to try at the same start position.
func (p *fastPlan) matchAt(runes []rune, pos int) (end int, ok bool) {
	i := pos
	for _, want := range p.prefix {
		if i >= len(runes) || !runeEqual(runes[i], want, p.prefixCI) {
			return 0, false
		}
		i++
	}

	switch {
	case p.hasPrefixSet:
		if i >= len(runes) || !runeInSet(p.prefixSet, p.prefixSetCI, runes[i]) {
			return 0, false
		}
		i++
	case p.hasGreedySet:
		n := 0
		for i+n < len(runes) && runeInSet(p.greedySet, p.greedySetCI, runes[i+n]) {
			n++
		}
		if n < p.minGreedy {
			return 0, false
		}
		i += n
	}

	for _, want := range p.suffix {
		if i >= len(runes) || !runeEqual(runes[i], want, p.suffixCI) {
			return 0, false
		}
		i++
	}

	if p.anchoredEnd && i != len(runes) {
		return 0, false
	}
	return i, true
}

// search tries every start position at or after from, in order, returning
// the first one that matches (and, if requireFull is set, consumes exactly
// to the end of runes). anchoredOnly restricts the attempt to exactly
// position from, matching Python re's match() rather than search().
//
// Trying starts in increasing order and returning the first success is
// sound here specifically because matchAt never has more than one possible
// reading per start: there is no second, lower-priority alternative at the
// same position that a leftmost-first search would need to prefer instead.
func (p *fastPlan) search(runes []rune, from int, anchoredOnly, requireFull bool) []int {
	start := from
	if p.anchoredStart && start > 0 {
		return nil
	}
	for start <= len(runes) {
		if end, ok := p.matchAt(runes, start); ok && (!requireFull || end == len(runes)) {
			return []int{start, end, -1}
		}
		if anchoredOnly || p.anchoredStart {
			return nil
		}
		start++
	}
	return nil
}

// runeInSet reports whether r appears in set (a flat membership string, as
// produced by charset.Charset.Flat), honoring ASCII case folding.
func runeInSet(set string, ci bool, r rune) bool {
	for _, m := range set {
		if runeEqual(m, r, ci) {
			return true
		}
	}
	return false
}
