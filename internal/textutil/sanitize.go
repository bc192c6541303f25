package textutil

import (
	"strings"
	"unicode"
)

// SanitizeToken converts a value such as a course id or run label into a
// lowercase token that is safe inside a file name. Letters and digits are
// kept (lowercased), hyphens and underscores pass through, and every other
// rune becomes an underscore. Returns "unknown" when nothing usable remains.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
