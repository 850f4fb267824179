package services

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// Slugify turns a title into a lowercase hyphenated slug.
func Slugify(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		normalized = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(normalized) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if len(out) > 200 {
		out = strings.TrimRight(out[:200], "-")
	}

	return out
}
