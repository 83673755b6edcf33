package rules

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// Suggest returns the candidate closest to input by Levenshtein distance,
// or "" when nothing is close enough to be a plausible typo.
func Suggest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	maxDistance := len(input) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	best := ""
	bestDistance := maxDistance + 1
	for _, c := range candidates {
		d := edlib.LevenshteinDistance(input, c)
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
