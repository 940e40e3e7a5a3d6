package validation

import (
	"strings"
)

// Slugify derives a URL-safe slug from a post title: spaces become hyphens,
// letters are lowercased, and every other rune outside [a-z0-9-] is dropped.
// The derivation is deterministic; uniqueness is enforced by the store.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
