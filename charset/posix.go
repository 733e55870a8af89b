package charset

// posixClasses holds the range tables for the `[:name:]` POSIX classes and
// the Perl shorthand classes (`\d`, `\w`, `\s`). All of them are expressed
// as ASCII-only ranges: the engine's Unicode support stops at individual
// rune ranges supplied by the pattern author, per spec's explicit
// non-goal of Unicode property classes.
var posixClasses = map[string][]Range{
	"alpha": {{'A', 'Z'}, {'a', 'z'}},
	"digit": {{'0', '9'}},
	"alnum": {{'A', 'Z'}, {'a', 'z'}, {'0', '9'}},
	"upper": {{'A', 'Z'}},
	"lower": {{'a', 'z'}},
	"space": {{'\t', '\n'}, {'\v', '\r'}, {' ', ' '}},
	"punct": {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
	"cntrl": {{0, 0x1f}, {0x7f, 0x7f}},
	"graph": {{0x21, 0x7e}},
	"print": {{0x20, 0x7e}},
	"blank": {{'\t', '\t'}, {' ', ' '}},
	"xdigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
	"ascii":  {{0, 0x7f}},
	"word":   {{'A', 'Z'}, {'a', 'z'}, {'0', '9'}, {'_', '_'}},
}

// PosixClass looks up a `[:name:]` class by name. The returned slice must
// not be mutated; callers that need to accumulate should copy via
// Builder.AddRanges, which already copies.
func PosixClass(name string) ([]Range, bool) {
	rs, ok := posixClasses[name]
	return rs, ok
}

// DigitRanges, WordRanges, SpaceRanges back the `\d`, `\w`, `\s` escapes.
func DigitRanges() []Range { return posixClasses["digit"] }
func WordRanges() []Range  { return posixClasses["word"] }
func SpaceRanges() []Range { return posixClasses["space"] }

// Digit, Word, Space build the sealed Charsets for `\d`, `\w`, `\s`.
func Digit() *Charset {
	b := NewBuilder()
	b.AddRanges(DigitRanges())
	return b.Build()
}

func Word() *Charset {
	b := NewBuilder()
	b.AddRanges(WordRanges())
	return b.Build()
}

func Space() *Charset {
	b := NewBuilder()
	b.AddRanges(SpaceRanges())
	return b.Build()
}

// IsWordRune reports whether r is an ASCII word character. This is the
// exact predicate the VM's word-boundary mask precomputes per spec's
// "ASCII-only" word-boundary design decision.
func IsWordRune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
