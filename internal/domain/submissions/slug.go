package submissions

import (
	"strings"
	"unicode"
)

// GenerateSlug turns a venue name into a URL slug: lowercase, whitespace
// becomes a hyphen, every other non-alphanumeric rune is dropped, and runs
// of hyphens collapse to one.
func GenerateSlug(name string) string {
	var b strings.Builder
	lastHyphen := true // leading hyphens are dropped

	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
