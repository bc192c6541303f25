package textutil

import (
	"slices"
	"strings"
)

// TokenSetScore compares two titles by their unique word tokens and returns a
// similarity in [0, 100]. Inputs are tokenized on whitespace as given; callers
// normally pass normalized titles. A title with no tokens scores 0 against
// everything. When one token set contains the other, the score is 100.
func TokenSetScore(a, b string) float64 {
	tokensA := uniqueSorted(strings.Fields(a))
	tokensB := uniqueSorted(strings.Fields(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	inB := make(map[string]struct{}, len(tokensB))
	for _, tok := range tokensB {
		inB[tok] = struct{}{}
	}
	inA := make(map[string]struct{}, len(tokensA))
	for _, tok := range tokensA {
		inA[tok] = struct{}{}
		if _, ok := inB[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for _, tok := range tokensB {
		if _, ok := inA[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}

	if len(shared) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := strings.Join(shared, " ")
	withA := joinNonEmpty(sect, strings.Join(onlyA, " "))
	withB := joinNonEmpty(sect, strings.Join(onlyB, " "))

	best := Ratio(withA, withB)
	if sect == "" {
		return best
	}
	best = max(best, Ratio(sect, withA), Ratio(sect, withB))
	return best
}

// Ratio is the normalized indel similarity of two strings in [0, 100]:
// 100 * (1 - d/(len(a)+len(b))) where d counts the insertions and deletions
// needed to turn a into b. Lengths are measured in runes.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	distance := total - 2*longestCommonSubsequence(ra, rb)
	return 100 * (1 - float64(distance)/float64(total))
}

func longestCommonSubsequence(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func uniqueSorted(tokens []string) []string {
	out := slices.Clone(tokens)
	slices.Sort(out)
	return slices.Compact(out)
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
