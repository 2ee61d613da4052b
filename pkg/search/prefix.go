package search

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// corpusEntry is an original corpus text and its position in the corpus.
type corpusEntry struct {
	pos  int
	text string
}

// prefixIndex maps normalized corpus texts to the original texts that produced them.
type prefixIndex struct {
	trie *patricia.Trie
	size int
}

func newPrefixIndex(corpus []string) *prefixIndex {
	idx := &prefixIndex{trie: patricia.NewTrie()}

	for pos, text := range corpus {
		normalized := Normalize(text)
		if normalized == "" {
			continue
		}
		key := patricia.Prefix(normalized)
		entry := corpusEntry{pos: pos, text: text}

		if item := idx.trie.Get(key); item != nil {
			bucket := item.(*[]corpusEntry)
			*bucket = append(*bucket, entry)
		} else {
			idx.trie.Insert(key, &[]corpusEntry{entry})
		}
		idx.size++
	}

	return idx
}

// Complete returns the original texts whose normalized form extends normalizedPrefix,
// in corpus order. Texts that normalize to exactly the prefix are skipped.
func (idx *prefixIndex) Complete(normalizedPrefix string) []string {
	if idx == nil || normalizedPrefix == "" {
		return nil
	}

	var hits []corpusEntry
	err := idx.trie.VisitSubtree(patricia.Prefix(normalizedPrefix), func(p patricia.Prefix, item patricia.Item) error {
		if string(p) == normalizedPrefix {
			return nil
		}
		hits = append(hits, *item.(*[]corpusEntry)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting prefix index: %v", err)
		return nil
	}

	slices.SortFunc(hits, func(a, b corpusEntry) int {
		return cmp.Compare(a.pos, b.pos)
	})

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.text
	}
	return texts
}
