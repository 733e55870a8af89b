package syntax

import (
	"strconv"
)

// flags holds the inline-modifier state threaded through a parse: each of
// `i`, `m`, `s`, `U`, `x` can be turned on by `(?flags)` / `(?flags:...)` and
// is scoped to the group it appears in, except the bareword form
// `(?flags)` with no body, which leaks to the rest of the enclosing group
// exactly as Python's re does.
type flags struct {
	i bool // case-insensitive
	m bool // multi-line: ^ and $ match at line boundaries
	s bool // dotall: . matches \n
	U bool // ungreedy: swap the default greediness of every quantifier
	x bool // verbose: ignore unescaped whitespace and # comments
}

// MaxGroupNameLen bounds a `(?P<name>...)` group name, per spec's 32
// code-unit limit. It is a package-level default; CompileWithConfig in the
// façade package can override it per call.
const MaxGroupNameLen = 32

// MaxRepeatCount bounds a single {n,m} expansion, guarding against a
// pattern author asking for a multi-gigabyte program.
const MaxRepeatCount = 1000

type parser struct {
	pattern string
	runes   []rune
	pos     int

	flags flags

	numGroups int
	named     map[string]int
	groupDepth int

	lastAltLiterals []string

	hasCaseInsensitive bool
	maxGroupNameLen    int
	maxRepeatCount     int
}

// Parse compiles a pattern string into a Program using the default
// group-name-length and repeat-count limits.
func Parse(pattern string) (*Program, error) {
	return ParseWithLimits(pattern, MaxGroupNameLen, MaxRepeatCount)
}

// ParseWithLimits is Parse with the group-name-length and repeat-count
// budgets overridden, used by the façade package's Config knobs.
func ParseWithLimits(pattern string, maxGroupNameLen, maxRepeatCount int) (*Program, error) {
	p := &parser{
		pattern:         pattern,
		runes:           []rune(pattern),
		named:           make(map[string]int),
		maxGroupNameLen: maxGroupNameLen,
		maxRepeatCount:  maxRepeatCount,
	}
	p.numGroups = 1 // group 0 is the whole match

	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf(p.pos, ErrUnsupportedFeature, "unexpected %q", string(p.peek()))
	}

	prog := concat(frag{Inst{Op: OpSave, Slot: 0}}, body, frag{Inst{Op: OpSave, Slot: 1}})
	prog = append(prog, Inst{Op: OpMatch})

	return &Program{
		Insts:              []Inst(prog),
		NumGroups:          p.numGroups,
		Named:              p.named,
		HasCaseInsensitive: p.hasCaseInsensitive,
		Source:             pattern,
		AltLiterals:        p.lastAltLiterals,
	}, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.runes) }

func (p *parser) peek() rune {
	if p.atEnd() {
		return -1
	}
	return p.runes[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	i := p.pos + offset
	if i < 0 || i >= len(p.runes) {
		return -1
	}
	return p.runes[i]
}

func (p *parser) next() rune {
	r := p.runes[p.pos]
	p.pos++
	return r
}

func (p *parser) newGroup(name string) int {
	idx := p.numGroups
	p.numGroups++
	if name != "" {
		p.named[name] = idx
	}
	return idx
}

// skipVerboseTrivia consumes unescaped whitespace and `#...` comments when
// the verbose flag is active. It is called at every point the grammar is
// about to inspect the next significant rune.
func (p *parser) skipVerboseTrivia() {
	if !p.flags.x {
		return
	}
	for !p.atEnd() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.next()
		case c == '#':
			for !p.atEnd() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

// parseAlternation = concat ('|' concat)*
func (p *parser) parseAlternation() (frag, error) {
	var branches []frag
	var literals []string
	allLiteral := true

	for {
		br, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, br)
		if lit, ok := leadingLiteral(br); ok && allLiteral {
			literals = append(literals, lit)
		} else {
			allLiteral = false
		}

		p.skipVerboseTrivia()
		if p.atEnd() || p.peek() != '|' {
			break
		}
		p.next() // consume '|'
	}

	result := alt(branches)
	if len(branches) > 1 && allLiteral && p.groupDepth == 0 {
		p.lastAltLiterals = literals
	}
	return result, nil
}

// parseConcat = repeat*
func (p *parser) parseConcat() (frag, error) {
	var parts []frag
	for {
		p.skipVerboseTrivia()
		if p.atEnd() {
			break
		}
		c := p.peek()
		if c == '|' || c == ')' {
			break
		}
		part, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		if part != nil {
			parts = append(parts, part)
		}
	}
	return concat(parts...), nil
}

// parseRepeat = atom quantifier?
func (p *parser) parseRepeat() (frag, error) {
	atomStart := p.pos
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	p.skipVerboseTrivia()
	if p.atEnd() {
		return atom, nil
	}

	switch p.peek() {
	case '*':
		p.next()
		return p.finishQuantifier(star(atom, true), star(atom, false), atomStart)
	case '+':
		p.next()
		return p.finishQuantifier(plus(atom, true), plus(atom, false), atomStart)
	case '?':
		p.next()
		return p.finishQuantifier(quest(atom, true), quest(atom, false), atomStart)
	case '{':
		return p.parseBoundedRepeat(atom, atomStart)
	default:
		return atom, nil
	}
}

// finishQuantifier applies the ungreedy flag and the trailing '?' lazy
// modifier to pick between a pre-built greedy and lazy frag.
func (p *parser) finishQuantifier(greedyFrag, lazyFrag frag, atomStart int) (frag, error) {
	lazy := p.flags.U
	if !p.atEnd() && p.peek() == '?' {
		p.next()
		lazy = !lazy
	}
	if lazy {
		return lazyFrag, nil
	}
	return greedyFrag, nil
}

// parseBoundedRepeat parses `{n}`, `{n,}`, `{n,m}` after an atom. If what
// follows '{' doesn't parse as a repetition, '{' is treated as a literal
// (matching the common regex-flavor convention this engine follows).
func (p *parser) parseBoundedRepeat(atom frag, atomStart int) (frag, error) {
	braceStart := p.pos
	p.next() // '{'
	n, hasN := p.readInt()
	m := n
	hasM := hasN
	if !p.atEnd() && p.peek() == ',' {
		p.next()
		if !p.atEnd() && p.peek() == '}' {
			m, hasM = -1, true // {n,}
		} else {
			m, hasM = p.readInt()
		}
	}
	if !hasN || !hasM || p.atEnd() || p.peek() != '}' {
		// Not a valid bound: '{' was a literal character.
		p.pos = braceStart
		p.next() // consume '{'
		lit, err := p.literalAtom('{')
		if err != nil {
			return nil, err
		}
		return concat(atom, lit), nil
	}
	p.next() // '}'

	if m != -1 && m < n {
		return nil, p.errorf(braceStart, ErrBadRepetition, "{%d,%d}: max less than min", n, m)
	}
	if n > p.maxRepeatCount || (m != -1 && m > p.maxRepeatCount) {
		return nil, p.errorf(braceStart, ErrBadRepetition, "repetition count exceeds limit of %d", p.maxRepeatCount)
	}

	greedy, err := p.boundedRepeatFrag(atom, n, m, true)
	if err != nil {
		return nil, err
	}
	lazy, err := p.boundedRepeatFrag(atom, n, m, false)
	if err != nil {
		return nil, err
	}
	return p.finishQuantifier(greedy, lazy, atomStart)
}

func (p *parser) boundedRepeatFrag(atom frag, n, m int, greedy bool) (frag, error) {
	if m == -1 {
		if n == 0 {
			return star(atom, greedy), nil
		}
		mandatory := make([]frag, n-1)
		for i := range mandatory {
			mandatory[i] = atom
		}
		return concat(append(mandatory, plus(atom, greedy))...), nil
	}

	mandatory := make([]frag, n)
	for i := range mandatory {
		mandatory[i] = atom
	}
	optional := nestedOptional(atom, m-n, greedy)
	return concat(append(mandatory, optional)...), nil
}

func (p *parser) readInt() (int, bool) {
	start := p.pos
	for !p.atEnd() && p.peek() >= '0' && p.peek() <= '9' {
		p.next()
	}
	if p.pos == start {
		return 0, false
	}
	v, err := strconv.Atoi(string(p.runes[start:p.pos]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseAtom parses a single grammar atom: a group, a character class, an
// anchor, an escape, '.', or a literal rune.
func (p *parser) parseAtom() (frag, error) {
	p.skipVerboseTrivia()
	c := p.next()
	switch c {
	case '(':
		return p.parseGroup()
	case '[':
		cs, negated, err := p.parseCharClass()
		if err != nil {
			return nil, err
		}
		if p.flags.i {
			p.hasCaseInsensitive = true
		}
		return frag{Inst{Op: OpSet, Set: cs, Negated: negated, CaseInsensitive: p.flags.i}}, nil
	case '.':
		if p.flags.s {
			return frag{Inst{Op: OpAnyNL}}, nil
		}
		return frag{Inst{Op: OpAnyNoNL}}, nil
	case '^':
		if p.flags.m {
			return frag{Inst{Op: OpAnchorLineStart}}, nil
		}
		return frag{Inst{Op: OpAnchorStart}}, nil
	case '$':
		if p.flags.m {
			return frag{Inst{Op: OpAnchorLineEnd}}, nil
		}
		return frag{Inst{Op: OpAnchorEnd}}, nil
	case '\\':
		return p.parseEscapeAtom()
	case ')':
		return nil, p.errorf(p.pos-1, ErrUnsupportedFeature, "unmatched )")
	case '*', '+', '?':
		return nil, p.errorf(p.pos-1, ErrBadRepetition, "repetition operator with nothing to repeat")
	default:
		return p.literalAtom(c)
	}
}

func (p *parser) literalAtom(c rune) (frag, error) {
	if p.flags.i {
		p.hasCaseInsensitive = true
	}
	return frag{Inst{Op: OpChar, Rune: c, CaseInsensitive: p.flags.i}}, nil
}

func (p *parser) parseEscapeAtom() (frag, error) {
	escStart := p.pos
	if p.atEnd() {
		return nil, p.errorf(escStart, ErrBadEscape, "trailing backslash")
	}
	c := p.peek()
	switch c {
	case 'A':
		p.next()
		return frag{Inst{Op: OpAnchorStart}}, nil
	case 'z':
		p.next()
		return frag{Inst{Op: OpAnchorEnd}}, nil
	case 'b':
		p.next()
		return frag{Inst{Op: OpWordBoundary}}, nil
	case 'B':
		p.next()
		return frag{Inst{Op: OpNotWordBoundary}}, nil
	case 'Q':
		p.next()
		return p.parseLiteralQuote()
	}
	isOctal := func(r rune) bool { return r >= '0' && r <= '7' }
	if c >= '1' && c <= '9' && !(c <= '7' && isOctal(p.peekAt(1)) && isOctal(p.peekAt(2))) {
		return nil, p.errorf(escStart, ErrUnsupportedFeature, "backreferences are not supported")
	}
	if cs, negated, ok := classEscape(c); ok {
		p.next()
		if p.flags.i {
			p.hasCaseInsensitive = true
		}
		return frag{Inst{Op: OpSet, Set: cs, Negated: negated, CaseInsensitive: p.flags.i}}, nil
	}
	r, err := p.readEscape()
	if err != nil {
		return nil, err
	}
	return p.literalAtom(r)
}

// parseLiteralQuote consumes runes verbatim until `\E` or end of pattern,
// after `\Q` has already been consumed.
func (p *parser) parseLiteralQuote() (frag, error) {
	var parts []frag
	for !p.atEnd() {
		if p.peek() == '\\' && p.peekAt(1) == 'E' {
			p.next()
			p.next()
			break
		}
		lit, err := p.literalAtom(p.next())
		if err != nil {
			return nil, err
		}
		parts = append(parts, lit)
	}
	return concat(parts...), nil
}

// parseGroup parses everything after an already-consumed '('.
func (p *parser) parseGroup() (frag, error) {
	groupStart := p.pos - 1
	if p.atEnd() {
		return nil, p.errorf(groupStart, ErrUnsupportedFeature, "unterminated group")
	}
	if p.peek() != '?' {
		idx := p.newGroup("")
		savedFlags := p.flags
		p.groupDepth++
		body, err := p.parseAlternation()
		p.groupDepth--
		p.flags = savedFlags
		if err != nil {
			return nil, err
		}
		if err := p.expect(')', groupStart); err != nil {
			return nil, err
		}
		return save(body, 2*idx, 2*idx+1), nil
	}
	p.next() // '?'

	switch {
	case !p.atEnd() && p.peek() == ':':
		p.next()
		savedFlags := p.flags
		p.groupDepth++
		body, err := p.parseAlternation()
		p.groupDepth--
		p.flags = savedFlags
		if err != nil {
			return nil, err
		}
		return body, p.expect(')', groupStart)

	case !p.atEnd() && p.peek() == 'P' && p.peekAt(1) == '<':
		p.next()
		return p.parseNamedGroup(groupStart)

	case !p.atEnd() && p.peek() == '<' && p.peekAt(1) != '=' && p.peekAt(1) != '!':
		return p.parseNamedGroup(groupStart)

	case !p.atEnd() && (p.peek() == '<' || p.peek() == '='):
		return nil, p.errorf(groupStart, ErrUnsupportedFeature, "lookaround assertions are not supported")

	default:
		return p.parseInlineFlags(groupStart)
	}
}

func (p *parser) parseNamedGroup(groupStart int) (frag, error) {
	p.next() // '<'
	nameStart := p.pos
	for !p.atEnd() && p.peek() != '>' {
		p.next()
	}
	if p.atEnd() {
		return nil, p.errorf(groupStart, ErrBadGroupName, "missing closing '>'")
	}
	name := string(p.runes[nameStart:p.pos])
	nameLen := p.pos - nameStart
	p.next() // '>'
	if name == "" || nameLen > p.maxGroupNameLen {
		return nil, p.errorf(nameStart, ErrBadGroupName, "group name %q invalid or too long", name)
	}
	if _, exists := p.named[name]; exists {
		return nil, p.errorf(nameStart, ErrBadGroupName, "duplicate group name %q", name)
	}

	idx := p.newGroup(name)
	savedFlags := p.flags
	p.groupDepth++
	body, err := p.parseAlternation()
	p.groupDepth--
	p.flags = savedFlags
	if err != nil {
		return nil, err
	}
	if err := p.expect(')', groupStart); err != nil {
		return nil, err
	}
	return save(body, 2*idx, 2*idx+1), nil
}

// parseInlineFlags parses `(?flags)` and `(?flags:...)`, '?' already
// consumed. A bodyless `(?flags)` mutates p.flags for the rest of the
// enclosing group rather than restoring it on return.
func (p *parser) parseInlineFlags(groupStart int) (frag, error) {
	savedFlags := p.flags
	neg := false
	saw := false
	for !p.atEnd() {
		c := p.peek()
		switch c {
		case '-':
			neg = true
			p.next()
			continue
		case 'i', 'm', 's', 'U', 'x':
			p.setFlag(c, !neg)
			saw = true
			p.next()
			continue
		}
		break
	}
	if !saw && !neg {
		return nil, p.errorf(groupStart, ErrUnsupportedFeature, "unrecognized (?...) group")
	}

	if !p.atEnd() && p.peek() == ':' {
		p.next()
		p.groupDepth++
		body, err := p.parseAlternation()
		p.groupDepth--
		p.flags = savedFlags
		if err != nil {
			return nil, err
		}
		return body, p.expect(')', groupStart)
	}
	if !p.atEnd() && p.peek() == ')' {
		p.next()
		return nil, nil
	}
	return nil, p.errorf(groupStart, ErrUnsupportedFeature, "malformed (?flags) group")
}

func (p *parser) setFlag(c rune, on bool) {
	switch c {
	case 'i':
		p.flags.i = on
		if on {
			p.hasCaseInsensitive = true
		}
	case 'm':
		p.flags.m = on
	case 's':
		p.flags.s = on
	case 'U':
		p.flags.U = on
	case 'x':
		p.flags.x = on
	}
}

func (p *parser) expect(r rune, contextStart int) error {
	if p.atEnd() || p.peek() != r {
		return p.errorf(contextStart, ErrUnsupportedFeature, "expected %q", string(r))
	}
	p.next()
	return nil
}
