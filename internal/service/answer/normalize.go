package answer

import (
	"regexp"
	"strings"
	"unicode"
)

// parentheticalPattern matches parenthetical asides like "(formal)".
var parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)

// Normalize canonicalizes free-text answers for comparison: it strips
// parenthetical asides, lower-cases, drops every rune that is not a
// Unicode letter or whitespace, collapses whitespace, and trims.
//
// Both the user's answer and every candidate correct answer pass
// through this function before equality comparison. Punctuation and
// formatting mismatches are forgiven, but accented letters survive
// (only non-letters are stripped), so correct orthography is still
// required. Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = parentheticalPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
