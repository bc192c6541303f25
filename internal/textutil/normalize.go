package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var (
	durationSuffixPattern  = regexp.MustCompile(`\s*\(\s*\d{1,3}:\d{2}(?::\d{2})?\s*\)\s*$`)
	readOnlySuffixPattern  = regexp.MustCompile(`(?i)\s*\(\s*read[\s_-]*only\s*\)\s*$`)
	numericIDSuffixPattern = regexp.MustCompile(`\s*[-–—:|_#]\s*\d{4,}\s*$`)
)

// maxNormalizePasses bounds the fixed-point loop in NormalizeTitle.
const maxNormalizePasses = 4

// NormalizeTitle reduces a title to its comparison key. Trailing "(12:34)"
// style durations, "(Read Only)" markers and " - 123456" ids are removed in
// any combination, then the text is case folded and every rune that is not a
// letter, digit or space becomes a space. Whitespace is collapsed and trimmed.
//
// The result is a fixed point: NormalizeTitle(NormalizeTitle(s)) equals
// NormalizeTitle(s).
func NormalizeTitle(title string) string {
	out := normalizeOnce(title)
	for range maxNormalizePasses {
		next := normalizeOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func normalizeOnce(title string) string {
	s := stripSuffixes(title)
	s = cases.Fold().String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func stripSuffixes(s string) string {
	for {
		before := s
		s = durationSuffixPattern.ReplaceAllString(s, "")
		s = readOnlySuffixPattern.ReplaceAllString(s, "")
		s = numericIDSuffixPattern.ReplaceAllString(s, "")
		if s == before {
			return s
		}
	}
}

// Tokenize splits a title into its normalized word tokens.
func Tokenize(title string) []string {
	return strings.Fields(NormalizeTitle(title))
}
