package search

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Scoring constants
const (
	DefaultThreshold = 0.3

	exactMatchScore     = 1.0
	partialMatchWeight  = 0.8
	maxScoreWeight      = 0.7
	averageScoreWeight  = 0.3
	autocompleteFuzzyTh = 0.6
)

// FuzzySearch scores every item against query over the given fields and returns the
// items scoring at least threshold, ranked by match count and then score.
//
// A blank query (or one that normalizes to nothing) filters nothing: every item is
// returned in input order with a zero annotation. Items with equal match count and
// score keep their input order.
func FuzzySearch[T Record](items []T, query string, fields []string, threshold float64) []Match[T] {
	normalizedQuery := Normalize(query)
	if normalizedQuery == "" {
		passthrough := make([]Match[T], len(items))
		for i, item := range items {
			passthrough[i] = Match[T]{Item: item}
		}
		return passthrough
	}

	queryTokens := Tokenize(normalizedQuery)
	results := make([]Match[T], 0, len(items))

	for _, item := range items {
		score, matches := scoreItem(item, normalizedQuery, queryTokens, fields, threshold)
		if score < threshold {
			continue
		}
		results = append(results, Match[T]{
			Item:    item,
			Score:   score,
			Matches: matches,
		})
	}

	slices.SortStableFunc(results, func(a, b Match[T]) int {
		if c := cmp.Compare(b.Matches, a.Matches); c != 0 {
			return c
		}
		return cmp.Compare(b.Score, a.Score)
	})

	return results
}

// scoreItem blends exact, token-level and whole-field matches of one item.
func scoreItem[T Record](item T, normalizedQuery string, queryTokens, fields []string, threshold float64) (float64, int) {
	var maxScore, totalScore float64
	matchCount := 0

	record := func(score float64) {
		maxScore = math.Max(maxScore, score)
		totalScore += score
		matchCount++
	}

	for _, field := range fields {
		normalizedField := Normalize(fieldValue(item, field))
		if normalizedField == "" {
			continue
		}

		// exact substring wins the whole field
		if strings.Contains(normalizedField, normalizedQuery) {
			record(exactMatchScore)
			continue
		}

		fieldTokens := Tokenize(normalizedField)
		for _, qt := range queryTokens {
			for _, ft := range fieldTokens {
				if sim := Similarity(qt, ft); sim >= threshold {
					record(sim)
				}
			}
		}

		if partial := Similarity(normalizedQuery, normalizedField); partial >= threshold {
			record(partial * partialMatchWeight)
		}
	}

	averageScore := 0.0
	if matchCount > 0 {
		averageScore = totalScore / float64(matchCount)
	}

	finalScore := math.Max(maxScore*maxScoreWeight+averageScore*averageScoreWeight, maxScore)
	return math.Min(finalScore, 1), matchCount
}
