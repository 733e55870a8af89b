package corerx

import (
	"fmt"
	"strconv"
	"strings"
)

// replacementPart is one piece of a parsed replacement template: either a
// literal run to copy verbatim, or a capture-group reference to substitute.
// groupRef is -1 for a literal part.
type replacementPart struct {
	literal  string
	groupRef int
}

// ReplacementTemplate is the parsed form of a `sub` replacement string,
// cached so a caller applying the same template across many matches (the
// external `sub` collaborator spec.md §6 describes) only pays the parse
// cost once.
type ReplacementTemplate struct {
	parts []replacementPart
}

// ParseReplacementTemplate parses repl's `\0`..`\9` numeric backreferences
// and `\g<name>` named backreferences (spec.md §6's replacement syntax),
// resolving names against named. `\\` escapes a literal backslash. Any other
// `\x` is treated as the literal rune x, matching the permissive behavior of
// the pattern lexer's own escape handling for ordinary punctuation.
func ParseReplacementTemplate(repl string, named map[string]int) (*ReplacementTemplate, error) {
	runes := []rune(repl)
	var parts []replacementPart
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, replacementPart{literal: lit.String(), groupRef: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' {
			lit.WriteRune(c)
			continue
		}
		if i+1 >= len(runes) {
			return nil, fmt.Errorf("corerx: replacement template %q ends in a trailing backslash", repl)
		}
		next := runes[i+1]
		switch {
		case next >= '0' && next <= '9':
			flush()
			parts = append(parts, replacementPart{groupRef: int(next - '0')})
			i++
		case next == 'g':
			end, ref, err := parseNamedRef(runes, i+2, named)
			if err != nil {
				return nil, err
			}
			flush()
			parts = append(parts, replacementPart{groupRef: ref})
			i = end - 1
		case next == '\\':
			lit.WriteRune('\\')
			i++
		default:
			lit.WriteRune(next)
			i++
		}
	}
	flush()
	return &ReplacementTemplate{parts: parts}, nil
}

// parseNamedRef parses `<name>` or `<digits>` starting at pos (just past
// `\g`), returning the position just past the closing `>` and the resolved
// group index.
func parseNamedRef(runes []rune, pos int, named map[string]int) (int, int, error) {
	if pos >= len(runes) || runes[pos] != '<' {
		return 0, 0, fmt.Errorf("corerx: \\g must be followed by <name> or <N>")
	}
	start := pos + 1
	end := start
	for end < len(runes) && runes[end] != '>' {
		end++
	}
	if end >= len(runes) {
		return 0, 0, fmt.Errorf("corerx: unterminated \\g<...> in replacement template")
	}
	name := string(runes[start:end])
	if n, err := strconv.Atoi(name); err == nil {
		return end + 1, n, nil
	}
	idx, ok := named[name]
	if !ok {
		return 0, 0, fmt.Errorf("corerx: \\g<%s> references an unknown group", name)
	}
	return end + 1, idx, nil
}

// Expand applies t to match, appending the result to dst and returning it.
func (t *ReplacementTemplate) Expand(dst []rune, match *Match) []rune {
	for _, part := range t.parts {
		if part.groupRef < 0 {
			dst = append(dst, []rune(part.literal)...)
			continue
		}
		if s, ok := match.groupAt(part.groupRef); ok {
			dst = append(dst, []rune(s)...)
		}
	}
	return dst
}

// ReplaceAll returns a copy of src with every non-overlapping match of re
// replaced by repl, expanded per ParseReplacementTemplate's `\0`..`\9` /
// `\g<name>` syntax.
func (re *Regexp) ReplaceAll(src, repl string) string {
	tmpl, err := ParseReplacementTemplate(repl, re.prog.Named)
	if err != nil {
		return src
	}
	runes := []rune(src)
	var out []rune
	lastEnd := 0
	start := 0
	for start <= len(runes) {
		m := re.Search(src, start)
		if m == nil {
			break
		}
		ms, me := m.Span(0)
		out = append(out, runes[lastEnd:ms]...)
		out = tmpl.Expand(out, m)
		lastEnd = me
		if me > start {
			start = me
		} else {
			start++
		}
	}
	out = append(out, runes[lastEnd:]...)
	return string(out)
}

// ReplaceAllFunc returns a copy of src with every non-overlapping match of
// re replaced by the return value of repl applied to the matched text.
func (re *Regexp) ReplaceAllFunc(src string, repl func(string) string) string {
	runes := []rune(src)
	var out []rune
	lastEnd := 0
	start := 0
	for start <= len(runes) {
		m := re.Search(src, start)
		if m == nil {
			break
		}
		ms, me := m.Span(0)
		out = append(out, runes[lastEnd:ms]...)
		matched, _ := m.Group(0)
		out = append(out, []rune(repl(matched))...)
		lastEnd = me
		if me > start {
			start = me
		} else {
			start++
		}
	}
	out = append(out, runes[lastEnd:]...)
	return string(out)
}

// Split slices s into substrings separated by matches of re, mirroring
// stdlib regexp.Regexp.Split: n > 0 returns at most n substrings (the last
// being the unsplit remainder), n == 0 returns nil, n < 0 returns all.
func (re *Regexp) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	spans := re.FindAllStringIndex(s, -1)
	if len(spans) == 0 {
		return []string{s}
	}
	runes := []rune(s)

	limit := len(spans) + 1
	if n > 0 && n < limit {
		limit = n
	}

	out := make([]string, 0, limit)
	lastEnd := 0
	for _, sp := range spans {
		if n > 0 && len(out) >= n-1 {
			break
		}
		out = append(out, string(runes[lastEnd:sp[0]]))
		lastEnd = sp[1]
	}
	out = append(out, string(runes[lastEnd:]))
	return out
}
