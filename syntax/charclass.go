package syntax

import "github.com/corerx/corerx/charset"

// parseCharClass parses a `[...]` character class, the leading '[' already
// consumed. It returns the sealed Charset and whether the class as a whole
// is negated (`[^...]`).
func (p *parser) parseCharClass() (*charset.Charset, bool, error) {
	start := p.pos - 1
	negated := false
	if !p.atEnd() && p.peek() == '^' {
		negated = true
		p.next()
	}

	b := charset.NewBuilder()
	first := true
	for {
		if p.atEnd() {
			return nil, false, p.errorf(start, ErrBadEscape, "unterminated character class")
		}
		if p.peek() == ']' && !first {
			p.next()
			return b.Build(), negated, nil
		}
		first = false

		if p.peek() == '[' && p.hasPrefix("[:") {
			if err := p.parsePosixClass(b); err != nil {
				return nil, false, err
			}
			continue
		}

		lo, err := p.classMember(b)
		if err != nil {
			return nil, false, err
		}
		if lo == -1 {
			// classMember consumed a shorthand escape (\d etc.) and
			// already merged it into b; there is no rune to range from.
			continue
		}

		if !p.atEnd() && p.peek() == '-' && p.pos+1 < len(p.runes) && p.runes[p.pos+1] != ']' {
			p.next() // consume '-'
			hi, err := p.classMember(b)
			if err != nil {
				return nil, false, err
			}
			if hi == -1 {
				return nil, false, p.errorf(p.pos, ErrBadEscape, "class shorthand cannot end a range")
			}
			if hi < lo {
				return nil, false, p.errorf(p.pos, ErrBadEscape, "range out of order")
			}
			b.AddRange(lo, hi)
			continue
		}
		b.AddChar(lo)
	}
}

// classMember reads one member of a character class: a literal rune, an
// escaped rune, or a Perl shorthand class merged directly into b. It
// returns -1 when the member was a shorthand class (already merged).
func (p *parser) classMember(b *charset.Builder) (rune, error) {
	c := p.next()
	if c != '\\' {
		return c, nil
	}
	escStart := p.pos
	if p.atEnd() {
		return 0, p.errorf(escStart, ErrBadEscape, "trailing backslash")
	}
	peeked := p.peek()
	if cs, neg, ok := classEscape(peeked); ok {
		p.next()
		if neg {
			return 0, p.errorf(escStart, ErrBadEscape, "negated shorthand class not allowed inside [...]")
		}
		b.AddSet(cs)
		return -1, nil
	}
	return p.readEscape()
}

func (p *parser) hasPrefix(s string) bool {
	if p.pos+len(s) > len(p.runes) {
		return false
	}
	for i, r := range s {
		if p.runes[p.pos+i] != r {
			return false
		}
	}
	return true
}

// parsePosixClass consumes a `[:name:]` or `[:^name:]` member, the leading
// '[' not yet consumed (hasPrefix only peeked), merging it into b.
func (p *parser) parsePosixClass(b *charset.Builder) error {
	start := p.pos
	p.next() // '['
	p.next() // ':'
	negated := false
	if !p.atEnd() && p.peek() == '^' {
		negated = true
		p.next()
	}
	nameStart := p.pos
	for !p.atEnd() && p.peek() != ':' {
		p.next()
	}
	if p.atEnd() {
		return p.errorf(start, ErrBadEscape, "unterminated POSIX class")
	}
	name := string(p.runes[nameStart:p.pos])
	p.next() // ':'
	if p.atEnd() || p.peek() != ']' {
		return p.errorf(start, ErrBadEscape, "unterminated POSIX class")
	}
	p.next() // ']'

	ranges, ok := charset.PosixClass(name)
	if !ok {
		return p.errorf(start, ErrBadEscape, "unknown POSIX class %q", name)
	}
	if negated {
		b.AddExcludedRanges(ranges)
	} else {
		b.AddRanges(ranges)
	}
	return nil
}
