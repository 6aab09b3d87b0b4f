package digest

import (
	"strings"
	"unicode"
)

// SanitizeMessage normalizes a raw commit message for safe embedding in JSON
// payloads and markdown card bodies. Control characters are stripped, line
// breaks collapse to single spaces, double quotes become single quotes and
// backslashes become forward slashes. Commit messages are attacker-ish input
// here: a stray quote or escape must not be able to corrupt the serialized
// digest that every downstream stage consumes.
func SanitizeMessage(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case r == '"':
			b.WriteRune('\'')
		case r == '\\':
			b.WriteRune('/')
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(collapseSpaces(b.String()))
}

// collapseSpaces reduces runs of spaces left behind by stripped line breaks.
func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
