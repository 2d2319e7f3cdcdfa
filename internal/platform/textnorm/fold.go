package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultLanguage is used for collation when no language is configured.
var DefaultLanguage = language.BrazilianPortuguese

// Fold lower-cases and strips combining marks, so "Grêmio" and "gremio" compare equal.
func Fold(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		out = value
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// NewCollator returns a locale-aware comparer. Collators are not safe for
// concurrent use, so callers build one per sort.
func NewCollator(tag language.Tag) *collate.Collator {
	if tag == language.Und {
		tag = DefaultLanguage
	}
	return collate.New(tag, collate.IgnoreCase)
}

// ParseLanguage parses a BCP 47 tag, falling back to DefaultLanguage.
func ParseLanguage(raw string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLanguage
	}
	return tag
}
