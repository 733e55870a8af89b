package corerx

import "strings"

// metaChars lists the runes this engine's parser treats specially outside
// a character class (verbose-mode whitespace and '#' are not included). It
// is a subset of syntax.isMetaRune's list, which also accepts a few other
// punctuation runes after a backslash.
const metaChars = `\.+*?()|[]{}^$`

// QuoteMeta returns a copy of s with every regex metacharacter escaped, so
// the result is a pattern matching s literally.
func QuoteMeta(s string) string {
	if !strings.ContainsAny(s, metaChars) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		if strings.ContainsRune(metaChars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
