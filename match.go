package corerx

// Match presents one successful search/match/fullmatch as captured group
// strings, spans, and named-group lookups, mirroring Python's re.Match
// surface (spec.md §4.5). Indices throughout are rune indices into the
// Match's own text field, matching Python str's own code-point indexing
// rather than Go's usual byte indexing — the engine's register vectors are
// rune-indexed from the VM all the way up, per spec.md §3's "indexable
// sequence of code units" data model.
//
// regs is the flat register vector spec.md §3 describes: regs[2*i] and
// regs[2*i+1] are group i's start/end, or -1/-1 if group i didn't
// participate; the final slot holds lastindex.
type Match struct {
	re   *Regexp
	text string
	regs []int
}

// groupCount returns the number of groups, including group 0.
func (m *Match) groupCount() int {
	return (len(m.regs) - 1) / 2
}

// resolveIndex turns a name-or-number into a group index. ok is false for an
// unknown name, an out-of-range index, or a value that is neither int nor
// string.
func (m *Match) resolveIndex(nameOrIndex any) (int, bool) {
	switch v := nameOrIndex.(type) {
	case int:
		if v < 0 || v >= m.groupCount() {
			return 0, false
		}
		return v, true
	case string:
		idx, ok := m.re.prog.Named[v]
		if !ok {
			return 0, false
		}
		return idx, true
	default:
		return 0, false
	}
}

// Group returns the substring captured by group n (0 is the whole match),
// or "", false if the group didn't participate or n is out of range.
func (m *Match) Group(n int) (string, bool) {
	return m.groupAt(n)
}

// GroupBy returns the substring captured by the group nameOrIndex refers to,
// mirroring Python re.Match.group's mixed int-or-name argument (spec.md
// §4.5's `group(n_or_name)`). ok is false if nameOrIndex is an unknown name,
// an out-of-range index, or a value of some other type.
func (m *Match) GroupBy(nameOrIndex any) (string, bool) {
	idx, ok := m.resolveIndex(nameOrIndex)
	if !ok {
		return "", false
	}
	return m.groupAt(idx)
}

func (m *Match) groupAt(idx int) (string, bool) {
	if idx < 0 || idx >= m.groupCount() {
		return "", false
	}
	start, end := m.regs[2*idx], m.regs[2*idx+1]
	if start < 0 || end < 0 {
		return "", false
	}
	return string([]rune(m.text)[start:end]), true
}

// GroupByName returns the substring captured by the named group, or "",
// false if the name is unknown or the group didn't participate.
func (m *Match) GroupByName(name string) (string, bool) {
	idx, ok := m.re.prog.Named[name]
	if !ok {
		return "", false
	}
	return m.groupAt(idx)
}

// Groups returns every capture group (1..NumSubexp, group 0 excluded) as a
// slice, substituting def for any group that didn't participate.
func (m *Match) Groups(def string) []string {
	out := make([]string, m.groupCount()-1)
	for i := 1; i < m.groupCount(); i++ {
		if s, ok := m.groupAt(i); ok {
			out[i-1] = s
		} else {
			out[i-1] = def
		}
	}
	return out
}

// GroupDict returns every named group as a name -> substring map,
// substituting def for any named group that didn't participate.
func (m *Match) GroupDict(def string) map[string]string {
	out := make(map[string]string, len(m.re.prog.Named))
	for name, idx := range m.re.prog.Named {
		if s, ok := m.groupAt(idx); ok {
			out[name] = s
		} else {
			out[name] = def
		}
	}
	return out
}

// Span returns the (start, end) rune indices of group n, or (-1, -1) if it
// didn't participate or n is out of range.
func (m *Match) Span(n int) (int, int) {
	if n < 0 || n >= m.groupCount() {
		return -1, -1
	}
	return m.regs[2*n], m.regs[2*n+1]
}

// Start returns the start rune index of group n, or -1.
func (m *Match) Start(n int) int {
	start, _ := m.Span(n)
	return start
}

// End returns the end rune index of group n, or -1.
func (m *Match) End(n int) int {
	_, end := m.Span(n)
	return end
}

// LastIndex returns the index of the most recently closed capturing group,
// or -1 if no group participated.
func (m *Match) LastIndex() int {
	return m.regs[len(m.regs)-1]
}

// LastGroup returns the name of the most recently closed capturing group,
// or "" if it is unnamed or no group participated.
func (m *Match) LastGroup() string {
	idx := m.LastIndex()
	if idx < 0 {
		return ""
	}
	for name, i := range m.re.prog.Named {
		if i == idx {
			return name
		}
	}
	return ""
}

// String returns the whole input text the match was found in, Python
// re.Match.string's contract — not to be confused with Group(0).
func (m *Match) String() string {
	return m.text
}

// Re returns the compiled Regexp that produced this Match.
func (m *Match) Re() *Regexp {
	return m.re
}
