// Package cli handles cmd line queries against a loaded catalog for DBG and testing.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/search"
	"github.com/charmbracelet/log"
)

const (
	nextCmd  = ":next"
	statsCmd = ":stats"
)

// InputHandler reads queries from stdin and prints ranked products and completions.
// Lines starting with :next print next-word suggestions, :stats prints index counters.
type InputHandler struct {
	searcher       search.ISearcher[catalog.Product]
	minQueryLength int
	maxQueryLength int
	resultLimit    int
	noFilter       bool
	in             io.Reader
	out            *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(searcher search.ISearcher[catalog.Product], minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		searcher:       searcher,
		minQueryLength: minLength,
		maxQueryLength: maxLength,
		resultLimit:    limit,
		noFilter:       noFilter,
		in:             os.Stdin,
		out:            log.Default(),
	}
}

// Start begins the interface loop. It returns nil when stdin is closed.
func (h *InputHandler) Start() error {
	h.out.Print("catserve CLI")
	h.out.Print("type a query and press Enter (:next <words>, :stats, Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput dispatches one line.
func (h *InputHandler) handleInput(line string) {
	switch {
	case line == statsCmd:
		h.printStats()
	case strings.HasPrefix(line, nextCmd):
		h.printNext(strings.TrimSpace(strings.TrimPrefix(line, nextCmd)))
	default:
		h.printSearch(line)
	}
}

func (h *InputHandler) accept(query string) bool {
	n := utf8.RuneCountInString(query)
	if n < h.minQueryLength {
		h.out.Errorf("Query too short: %s", query)
		return false
	}
	if n > h.maxQueryLength {
		h.out.Errorf("Query too long: %s", query)
		return false
	}
	if !h.noFilter && !utils.IsValidInput(query) {
		h.out.Warnf("No results for query: '%s' (filtered out)", query)
		return false
	}
	return true
}

func (h *InputHandler) printSearch(query string) {
	if !h.accept(query) {
		return
	}

	opts := search.DefaultSearchOptions[catalog.Product]()
	opts.Limit = h.resultLimit

	start := time.Now()
	matches := h.searcher.Search(query, opts)
	completions := h.searcher.Autocomplete(query, h.resultLimit)
	h.out.Debugf("Took [ %v ] for query '%s'", time.Since(start), query)

	if len(matches) == 0 {
		h.out.Warnf("No products found for query: '%s'", query)
	} else {
		h.out.Printf("Found %d products for '%s':", len(matches), query)
		for i, m := range matches {
			name := fmt.Sprintf("\033[38;5;75m%s\033[0m", m.Item.Name)
			h.out.Printf("%2d. %-40s (score: %.3f, matches: %d, id: %s)", i+1, name, m.Score, m.Matches, m.Item.ID)
		}
	}

	if len(completions) > 0 {
		h.out.Printf("Autocomplete: %s", strings.Join(completions, " | "))
	}
}

func (h *InputHandler) printNext(query string) {
	words := h.searcher.Suggestions(query)
	if len(words) == 0 {
		h.out.Warnf("No next-word suggestions for: '%s'", query)
		return
	}
	h.out.Printf("Next words after '%s': %s", query, strings.Join(words, ", "))
}

func (h *InputHandler) printStats() {
	stats := h.searcher.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.out.Printf("%-12s %s", k, formatWithCommas(stats[k]))
	}
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 {
		return str
	}

	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
