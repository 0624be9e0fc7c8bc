package tracker

import (
	"strings"
	"unicode"
)

// cleanText trims surrounding space and drops control characters other than
// newlines and tabs.
func cleanText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
