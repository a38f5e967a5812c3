// Package textutil provides the text normalization and similarity scoring
// used by subtitle alignment.
package textutil

import (
	"regexp"
	"strings"
)

var (
	assTagPattern  = regexp.MustCompile(`\{[^}]*\}`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Normalize strips subtitle markup, case-folds and collapses whitespace so
// two renditions of the same line compare equal.
func Normalize(text string) string {
	text = assTagPattern.ReplaceAllString(text, "")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\N`, " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// Similarity returns a sequence-similarity ratio in [0,1]: twice the length
// of the longest common subsequence over the combined length. Empty inputs
// score 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	// single-row LCS to keep memory at O(min(m,n))
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
