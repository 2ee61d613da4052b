package search

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSearchLimit caps the number of records Search returns by default.
const DefaultSearchLimit = 50

// SearchOptions tunes a single Search call.
// Use DefaultSearchOptions for default values.
type SearchOptions[T Record] struct {
	// Threshold is the minimum score a record needs to be returned.
	Threshold float64

	// Limit is the maximum number of results. Values <= 0 mean DefaultSearchLimit.
	Limit int

	// FilterBy drops results it returns false for. Applied after scoring.
	FilterBy func(Match[T]) bool

	// SortBy replaces the default match-count/score ordering when set.
	// It follows the slices.SortFunc comparator contract.
	SortBy func(a, b Match[T]) int
}

// DefaultSearchOptions returns threshold 0.3, limit 50 and no filter or custom order.
func DefaultSearchOptions[T Record]() SearchOptions[T] {
	return SearchOptions[T]{
		Threshold: DefaultThreshold,
		Limit:     DefaultSearchLimit,
	}
}

// AdvancedSearch owns a snapshot of records and the derived autocomplete structures.
// Everything is built in New and never changes afterwards, so one instance can serve
// concurrent callers. Build a new instance when the records change.
type AdvancedSearch[T Record] struct {
	items  []T
	fields []string
	corpus []string
	chain  *MarkovChain
	index  *prefixIndex
}

// New indexes items over the given search fields.
func New[T Record](items []T, fields []string) *AdvancedSearch[T] {
	start := time.Now()

	corpus := buildCorpus(items, fields)
	as := &AdvancedSearch[T]{
		items:  slices.Clone(items),
		fields: slices.Clone(fields),
		corpus: corpus,
		chain:  BuildMarkovChain(corpus),
		index:  newPrefixIndex(corpus),
	}

	log.Debugf("Indexed %d items (%d texts, %d chain words) in %v",
		len(items), len(corpus), as.chain.Len(), time.Since(start))
	return as
}

// Search ranks the records against query, then filters, reorders and truncates
// according to opts.
func (as *AdvancedSearch[T]) Search(query string, opts SearchOptions[T]) []Match[T] {
	results := FuzzySearch(as.items, query, as.fields, opts.Threshold)

	if opts.FilterBy != nil {
		results = slices.DeleteFunc(results, func(m Match[T]) bool {
			return !opts.FilterBy(m)
		})
	}

	if opts.SortBy != nil {
		slices.SortStableFunc(results, opts.SortBy)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Autocomplete returns up to limit completions for query.
func (as *AdvancedSearch[T]) Autocomplete(query string, limit int) []string {
	return generateAutocomplete(as.corpus, as.chain, as.index, query, limit)
}

// Suggestions returns the words most likely to follow the last word of query.
func (as *AdvancedSearch[T]) Suggestions(query string) []string {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []string{}
	}
	return SuggestNextWords(tokens[len(tokens)-1], as.chain, DefaultNextWordLimit)
}

// Chain returns the cached Markov chain. Callers get read-only access through its methods.
func (as *AdvancedSearch[T]) Chain() *MarkovChain {
	return as.chain
}

// Items returns a copy of the indexed records.
func (as *AdvancedSearch[T]) Items() []T {
	return slices.Clone(as.items)
}

// Fields returns the configured search fields.
func (as *AdvancedSearch[T]) Fields() []string {
	return slices.Clone(as.fields)
}

// Stats returns counters about the indexed snapshot.
func (as *AdvancedSearch[T]) Stats() map[string]int {
	return map[string]int{
		"items":       len(as.items),
		"fields":      len(as.fields),
		"corpusTexts": len(as.corpus),
		"chainWords":  as.chain.Len(),
		"prefixTexts": as.index.size,
	}
}
