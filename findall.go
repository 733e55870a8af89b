package corerx

// This file is the Go-idiomatic Find family SPEC_FULL.md §6 asks the façade
// to expose, grounded in stdlib regexp's naming so the package is a
// drop-in shape for readers of that API. Every method here is built purely
// on Regexp.Search (the CORE's search executor): FindAll* repeatedly calls
// Search, each time advancing start past the previous match's end (or by
// +1 on a zero-width match), exactly as spec.md §6 specifies.

// FindStringIndex returns the (start, end) rune-index span of the leftmost
// match in s, or nil if there is none.
func (re *Regexp) FindStringIndex(s string) []int {
	m := re.Search(s, 0)
	if m == nil {
		return nil
	}
	start, end := m.Span(0)
	return []int{start, end}
}

// FindString returns the text of the leftmost match in s, or "" if there is
// none. Callers that need to distinguish "no match" from "matched the empty
// string" should use FindStringIndex instead.
func (re *Regexp) FindString(s string) string {
	m := re.Search(s, 0)
	if m == nil {
		return ""
	}
	text, _ := m.Group(0)
	return text
}

// FindStringSubmatch returns the leftmost match and its capture groups as
// strings, result[0] the whole match and result[i] group i; an unmatched
// group is "". Returns nil if there is no match.
func (re *Regexp) FindStringSubmatch(s string) []string {
	m := re.Search(s, 0)
	if m == nil {
		return nil
	}
	out := make([]string, m.groupCount())
	for i := range out {
		out[i], _ = m.groupAt(i)
	}
	return out
}

// FindStringSubmatchIndex returns the (start, end) rune-index span of the
// leftmost match and every capture group, flattened as
// [m0start, m0end, m1start, m1end, ...]; an unmatched group is (-1, -1).
// Returns nil if there is no match.
func (re *Regexp) FindStringSubmatchIndex(s string) []int {
	m := re.Search(s, 0)
	if m == nil {
		return nil
	}
	out := make([]int, len(m.regs)-1)
	copy(out, m.regs[:len(m.regs)-1])
	return out
}

// FindAllStringIndex returns the spans of every successive non-overlapping
// match in s. If n >= 0, it returns at most n matches; n < 0 means all.
func (re *Regexp) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	runes := []rune(s)
	var out [][]int
	start := 0
	for start <= len(runes) {
		m := re.Search(s, start)
		if m == nil {
			break
		}
		ms, me := m.Span(0)
		out = append(out, []int{ms, me})
		if n > 0 && len(out) >= n {
			break
		}
		if me > start {
			start = me
		} else {
			start++
		}
	}
	return out
}

// FindAllString is FindAllStringIndex, returning the matched text instead
// of spans.
func (re *Regexp) FindAllString(s string, n int) []string {
	spans := re.FindAllStringIndex(s, n)
	if spans == nil {
		return nil
	}
	runes := []rune(s)
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = string(runes[sp[0]:sp[1]])
	}
	return out
}

// FindAllStringSubmatch is FindAllString, additionally returning every
// capture group per match (see FindStringSubmatch).
func (re *Regexp) FindAllStringSubmatch(s string, n int) [][]string {
	if n == 0 {
		return nil
	}
	var out [][]string
	start := 0
	runes := []rune(s)
	for start <= len(runes) {
		m := re.Search(s, start)
		if m == nil {
			break
		}
		groups := make([]string, m.groupCount())
		for i := range groups {
			groups[i], _ = m.groupAt(i)
		}
		out = append(out, groups)
		_, me := m.Span(0)
		if n > 0 && len(out) >= n {
			break
		}
		if me > start {
			start = me
		} else {
			start++
		}
	}
	return out
}

// FindAllStringSubmatchIndex is FindAllStringSubmatch, returning flattened
// index slices (see FindStringSubmatchIndex) instead of strings.
func (re *Regexp) FindAllStringSubmatchIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	start := 0
	runes := []rune(s)
	for start <= len(runes) {
		m := re.Search(s, start)
		if m == nil {
			break
		}
		idx := make([]int, len(m.regs)-1)
		copy(idx, m.regs[:len(m.regs)-1])
		out = append(out, idx)
		_, me := m.Span(0)
		if n > 0 && len(out) >= n {
			break
		}
		if me > start {
			start = me
		} else {
			start++
		}
	}
	return out
}

// Find, FindIndex, FindSubmatch, FindSubmatchIndex, FindAll, FindAllIndex,
// FindAllSubmatch, FindAllSubmatchIndex are []byte-oriented twins of the
// String family above, matching stdlib regexp's split API even though this
// engine's register vectors are rune-indexed internally throughout.

func (re *Regexp) Find(b []byte) []byte {
	m := re.Search(string(b), 0)
	if m == nil {
		return nil
	}
	text, _ := m.Group(0)
	return []byte(text)
}

func (re *Regexp) FindIndex(b []byte) []int {
	return re.FindStringIndex(string(b))
}

func (re *Regexp) FindSubmatch(b []byte) [][]byte {
	groups := re.FindStringSubmatch(string(b))
	if groups == nil {
		return nil
	}
	out := make([][]byte, len(groups))
	for i, g := range groups {
		out[i] = []byte(g)
	}
	return out
}

func (re *Regexp) FindSubmatchIndex(b []byte) []int {
	return re.FindStringSubmatchIndex(string(b))
}

func (re *Regexp) FindAll(b []byte, n int) [][]byte {
	strs := re.FindAllString(string(b), n)
	if strs == nil {
		return nil
	}
	out := make([][]byte, len(strs))
	for i, s := range strs {
		out[i] = []byte(s)
	}
	return out
}

func (re *Regexp) FindAllIndex(b []byte, n int) [][]int {
	return re.FindAllStringIndex(string(b), n)
}

func (re *Regexp) FindAllSubmatch(b []byte, n int) [][][]byte {
	groupsPerMatch := re.FindAllStringSubmatch(string(b), n)
	if groupsPerMatch == nil {
		return nil
	}
	out := make([][][]byte, len(groupsPerMatch))
	for i, groups := range groupsPerMatch {
		row := make([][]byte, len(groups))
		for j, g := range groups {
			row[j] = []byte(g)
		}
		out[i] = row
	}
	return out
}

func (re *Regexp) FindAllSubmatchIndex(b []byte, n int) [][]int {
	return re.FindAllStringSubmatchIndex(string(b), n)
}
