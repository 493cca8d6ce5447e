package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics, so "São Paulo" matches "sao".
func Fold(s string) string {
	if out, _, err := transform.String(fold, s); err == nil {
		s = out
	}
	return strings.ToLower(s)
}

func foldContains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), needle)
}
