package search

import "strings"

// Levenshtein returns the edit distance between a and b, counted in runes.
// Insertions, deletions and substitutions all cost 1.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	dist := make([][]int, la+1)
	for i := range dist {
		dist[i] = make([]int, lb+1)
		dist[i][0] = i
	}
	for j := 1; j <= lb; j++ {
		dist[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dist[i][j] = min(
				dist[i-1][j]+1,      // deletion
				dist[i][j-1]+1,      // insertion
				dist[i-1][j-1]+cost, // substitution
			)
		}
	}

	return dist[la][lb]
}

// Similarity maps the case-insensitive edit distance of a and b into [0,1],
// where 1 is identical. Two empty strings are identical.
func Similarity(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	maxLen := max(len([]rune(la)), len([]rune(lb)))
	if maxLen == 0 {
		return 1
	}

	sim := float64(maxLen-Levenshtein(la, lb)) / float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}
