package search

import (
	"strings"

	"github.com/bastiangx/catalogserve/internal/utils"
)

// DefaultAutocompleteLimit is the number of completions returned by default.
const DefaultAutocompleteLimit = 10

const corpusField = "text"

// GenerateAutocomplete builds a Markov chain and prefix index over the field values of
// items and returns completions for query. Prefer AdvancedSearch.Autocomplete when the
// same items are queried repeatedly.
func GenerateAutocomplete[T Record](items []T, fields []string, query string, limit int) []string {
	corpus := buildCorpus(items, fields)
	return generateAutocomplete(corpus, BuildMarkovChain(corpus), newPrefixIndex(corpus), query, limit)
}

// generateAutocomplete merges three sources, in order: Markov continuations of the last
// query word, corpus texts extending the query, and close fuzzy matches of the query.
func generateAutocomplete(corpus []string, chain *MarkovChain, index *prefixIndex, query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultAutocompleteLimit
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []string{}
	}

	filter := utils.NewSuggestionFilter()
	var suggestions []string
	add := func(s string) {
		if filter.ShouldInclude(s) {
			suggestions = append(suggestions, s)
		}
	}

	lastWord := tokens[len(tokens)-1]
	for _, next := range SuggestNextWords(lastWord, chain, DefaultNextWordLimit) {
		parts := append(append(make([]string, 0, len(tokens)+1), tokens...), next)
		add(strings.Join(parts, " "))
	}

	normalizedQuery := strings.Join(tokens, " ")
	for _, text := range index.Complete(normalizedQuery) {
		add(text)
	}

	pseudo := make([]Fields, len(corpus))
	for i, text := range corpus {
		pseudo[i] = Fields{corpusField: text}
	}
	fuzzy := FuzzySearch(pseudo, query, []string{corpusField}, autocompleteFuzzyTh)
	for i, m := range fuzzy {
		if i >= limit {
			break
		}
		add(m.Item[corpusField])
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	if suggestions == nil {
		return []string{}
	}
	return suggestions
}

// buildCorpus collects every non-empty configured field value, item by item.
func buildCorpus[T Record](items []T, fields []string) []string {
	corpus := make([]string, 0, len(items)*len(fields))
	for _, item := range items {
		for _, field := range fields {
			if v := fieldValue(item, field); v != "" {
				corpus = append(corpus, v)
			}
		}
	}
	return corpus
}
