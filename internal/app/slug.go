package app

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"tripmarket/internal/domain"
)

var slugFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases, strips diacritics and collapses everything that
// is not alphanumeric into single hyphens.
func Slugify(s string) string {
	if folded, _, err := transform.String(slugFold, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueSlug resolves the slug before remote insertion: on collision a
// short random suffix is appended, so inserts never lean on a
// unique-constraint error round-trip.
func uniqueSlug(ctx context.Context, gw domain.Gateway, table domain.Table, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "untitled"
	}
	exists, err := gw.SlugExists(ctx, table, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}
