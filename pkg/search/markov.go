package search

import (
	"cmp"
	"slices"
)

// DefaultNextWordLimit is the number of successors SuggestNextWords returns by default.
const DefaultNextWordLimit = 5

// Transition is one observed successor of a word with its estimated probability.
type Transition struct {
	Word        string
	Probability float64
}

// MarkovChain is a first-order word model: for each word, the words seen right after it.
// Successors keep the order they were first observed in. A chain is never mutated after
// BuildMarkovChain returns.
type MarkovChain struct {
	next map[string][]Transition
}

// BuildMarkovChain counts adjacent token pairs inside each text and turns the counts into
// per-word probability distributions. Pairs never span two texts.
func BuildMarkovChain(texts []string) *MarkovChain {
	counts := make(map[string]map[string]int)
	order := make(map[string][]string)

	for _, text := range texts {
		tokens := Tokenize(text)
		for i := 0; i+1 < len(tokens); i++ {
			current, following := tokens[i], tokens[i+1]
			successors, ok := counts[current]
			if !ok {
				successors = make(map[string]int)
				counts[current] = successors
			}
			if successors[following] == 0 {
				order[current] = append(order[current], following)
			}
			successors[following]++
		}
	}

	chain := &MarkovChain{next: make(map[string][]Transition, len(counts))}
	for word, successors := range counts {
		total := 0
		for _, n := range successors {
			total += n
		}

		transitions := make([]Transition, 0, len(successors))
		for _, following := range order[word] {
			transitions = append(transitions, Transition{
				Word:        following,
				Probability: float64(successors[following]) / float64(total),
			})
		}
		chain.next[word] = transitions
	}

	return chain
}

// Successors returns a copy of the distribution observed after word.
// word must already be normalized.
func (c *MarkovChain) Successors(word string) []Transition {
	if c == nil {
		return nil
	}
	transitions, ok := c.next[word]
	if !ok {
		return nil
	}
	return slices.Clone(transitions)
}

// Len returns the number of words that have at least one successor.
func (c *MarkovChain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.next)
}

// Words returns every word that has successors, in no particular order.
func (c *MarkovChain) Words() []string {
	if c == nil {
		return nil
	}
	words := make([]string, 0, len(c.next))
	for w := range c.next {
		words = append(words, w)
	}
	return words
}

// SuggestNextWords returns up to limit likely successors of word, most probable first.
// Equally likely successors keep their first-observed order.
func SuggestNextWords(word string, chain *MarkovChain, limit int) []string {
	if limit <= 0 {
		limit = DefaultNextWordLimit
	}

	transitions := chain.Successors(Normalize(word))
	if len(transitions) == 0 {
		return []string{}
	}

	slices.SortStableFunc(transitions, func(a, b Transition) int {
		return cmp.Compare(b.Probability, a.Probability)
	})

	if len(transitions) > limit {
		transitions = transitions[:limit]
	}

	words := make([]string, len(transitions))
	for i, t := range transitions {
		words[i] = t.Word
	}
	return words
}
