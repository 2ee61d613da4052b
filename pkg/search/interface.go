// Package search is the catalog search core: text normalization, edit-distance scoring,
// fuzzy record matching and Markov-chain autocomplete over a fixed snapshot of records.
package search

// Record is anything the matcher can read search fields from.
// ok is false when the record has no such field; absent fields are searched as "".
type Record interface {
	Field(name string) (value string, ok bool)
}

// Fields is a plain field map that satisfies Record.
type Fields map[string]string

// Field returns the value stored under name.
func (f Fields) Field(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// Match is a record annotated with its fuzzy score and the number of
// field/token matches that contributed to it.
type Match[T Record] struct {
	Item    T
	Score   float64
	Matches int
}

// ISearcher is the query surface shared by the IPC server and the CLI.
type ISearcher[T Record] interface {
	// Search returns ranked records for a query
	Search(query string, opts SearchOptions[T]) []Match[T]

	// Autocomplete returns full-query completions
	Autocomplete(query string, limit int) []string

	// Suggestions returns likely next words for the last query word
	Suggestions(query string) []string

	// Stats returns counters about the indexed snapshot
	Stats() map[string]int
}

// fieldValue resolves a configured field, treating absent values as empty.
func fieldValue[T Record](item T, name string) string {
	v, ok := item.Field(name)
	if !ok {
		return ""
	}
	return v
}
