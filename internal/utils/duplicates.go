package utils

// SuggestionFilter drops repeated suggestions. Comparison is exact, so two spellings
// that differ only in case are both kept.
type SuggestionFilter struct {
	seen map[string]struct{}
}

// NewSuggestionFilter creates a filter that already rejects the given words.
func NewSuggestionFilter(exclude ...string) *SuggestionFilter {
	seen := make(map[string]struct{}, len(exclude))
	for _, w := range exclude {
		seen[w] = struct{}{}
	}
	return &SuggestionFilter{seen: seen}
}

// ShouldInclude reports whether word is new, and remembers it.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	if _, dup := f.seen[word]; dup {
		return false
	}
	f.seen[word] = struct{}{}
	return true
}

// Len returns the number of words seen so far.
func (f *SuggestionFilter) Len() int {
	return len(f.seen)
}
