package syntax

import (
	"strconv"

	"github.com/corerx/corerx/charset"
)

// readEscape consumes the character(s) after a '\' already eaten by the
// caller and returns the rune it denotes, or an error for an escape it does
// not recognize. It does not handle the class escapes (\d, \w, \s and their
// negations); the caller is expected to check classEscape first for those.
func (p *parser) readEscape() (rune, error) {
	start := p.pos
	if p.atEnd() {
		return 0, p.errorf(start, ErrBadEscape, "trailing backslash")
	}
	c := p.next()
	switch c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'a':
		return '\a', nil
	case 'x':
		return p.readHexEscape(start)
	case 'u':
		return p.readFixedHex(start, 4)
	case 'U':
		return p.readFixedHex(start, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return p.readOctalEscape(start, c)
	default:
		if isMetaRune(c) || !isASCIILetter(c) && !isASCIIDigit(c) {
			return c, nil
		}
		return 0, p.errorf(start, ErrBadEscape, "unrecognized escape %q", "\\"+string(c))
	}
}

func isMetaRune(r rune) bool {
	switch r {
	case '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|', '^', '$', '\\', '/', '-', ':', '<', '>', '#':
		return true
	}
	return false
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (p *parser) readHexEscape(start int) (rune, error) {
	if !p.atEnd() && p.peek() == '{' {
		p.next()
		hexStart := p.pos
		for !p.atEnd() && p.peek() != '}' {
			p.next()
		}
		if p.atEnd() {
			return 0, p.errorf(start, ErrBadEscape, "unterminated \\x{...}")
		}
		hex := string(p.runes[hexStart:p.pos])
		p.next() // consume '}'
		if hex == "" {
			return 0, p.errorf(start, ErrBadEscape, "empty \\x{}")
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > 0x10FFFF {
			return 0, p.errorf(start, ErrBadEscape, "invalid \\x{%s}", hex)
		}
		return rune(v), nil
	}
	return p.readFixedHex(start, 2)
}

func (p *parser) readFixedHex(start int, n int) (rune, error) {
	if p.pos+n > len(p.runes) {
		return 0, p.errorf(start, ErrBadEscape, "incomplete hex escape")
	}
	hex := string(p.runes[p.pos : p.pos+n])
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, p.errorf(start, ErrBadEscape, "invalid hex escape %q", hex)
	}
	p.pos += n
	return rune(v), nil
}

// readOctalEscape reads up to three octal digits, capped at \377 (0o377),
// matching Python re's own octal-escape ceiling; \400 and above are
// rejected as BadEscape rather than silently wrapping into a Latin-1 rune.
func (p *parser) readOctalEscape(start int, first rune) (rune, error) {
	digits := []rune{first}
	for len(digits) < 3 && !p.atEnd() && p.peek() >= '0' && p.peek() <= '7' {
		digits = append(digits, p.next())
	}
	v, _ := strconv.ParseUint(string(digits), 8, 32)
	if v > 0o377 {
		return 0, p.errorf(start, ErrBadEscape, "octal escape \\%s exceeds \\377", string(digits))
	}
	return rune(v), nil
}

// classEscape identifies the Perl shorthand classes. ok is false for any
// other escape, in which case the caller should fall back to readEscape.
func classEscape(c rune) (cs *charset.Charset, negated bool, ok bool) {
	switch c {
	case 'd':
		return charset.Digit(), false, true
	case 'D':
		return charset.Digit(), true, true
	case 'w':
		return charset.Word(), false, true
	case 'W':
		return charset.Word(), true, true
	case 's':
		return charset.Space(), false, true
	case 'S':
		return charset.Space(), true, true
	default:
		return nil, false, false
	}
}
