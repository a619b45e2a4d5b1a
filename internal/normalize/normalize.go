package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes letters and drops the combining marks, so that
// "tilápia" and "tilapia" produce the same bytes.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key converts a material name into its canonical lookup key: trimmed,
// lowercased, accents removed, the standalone connective "de" dropped,
// hyphens turned into spaces, and whitespace runs collapsed.
//
// The same function is applied to sheet rows at load time and to query
// tokens at request time; two names denote the same material exactly when
// their keys are equal.
func Key(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	if stripped, _, err := transform.String(stripAccents, t); err == nil {
		t = stripped
	}
	t = strings.ReplaceAll(t, " de ", " ")
	t = strings.ReplaceAll(t, "-", " ")
	return strings.Join(strings.Fields(t), " ")
}
