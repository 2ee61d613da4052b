package server

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/catalogserve/internal/logger"
	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// reloadEvery is how many requests pass between config reloads.
const reloadEvery = 100

// Server handles the IPC for catalog search
type Server struct {
	searcher     search.ISearcher[catalog.Product]
	config       *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	requestCount int
	cache        *completionCache
	logger       *log.Logger
}

// NewServer creates a server speaking over stdin/stdout.
func NewServer(searcher search.ISearcher[catalog.Product], cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(searcher, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server on arbitrary streams.
func NewServerWithIO(searcher search.ISearcher[catalog.Product], cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		searcher:   searcher,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		cache:      newCompletionCache(cfg.Server.CacheSize),
		logger:     logger.New("ipc"),
	}
}

// Start sends the ready banner and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

// handleRequest decodes one message and dispatches it by op.
func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid msgpack request", 400)
		return
	}

	s.requestCount++
	if s.requestCount%reloadEvery == 0 {
		s.reloadConfig()
	}

	switch req.Op {
	case OpSearch:
		s.handleSearch(req)
	case OpComplete:
		s.handleComplete(req)
	case OpSuggest:
		s.handleSuggest(req)
	case OpHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	case OpStats:
		stats := s.searcher.Stats()
		stats["requests"] = s.requestCount
		maps.Copy(stats, s.cache.Stats())
		s.sendResponse(StatsResponse{ID: req.ID, Stats: stats})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %q", req.Op), 400)
	}
}

// validateQuery checks query length limits. allowEmpty lets search list the catalog.
func (s *Server) validateQuery(req Request, allowEmpty bool) bool {
	n := utf8.RuneCountInString(req.Query)
	if n > s.config.Server.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.config.Server.MaxQuery), 400)
		return false
	}
	if n == 0 && allowEmpty {
		return true
	}
	if n < s.config.Server.MinQuery || n == 0 {
		s.sendError(req.ID, fmt.Sprintf("Query must be at least %d characters", max(s.config.Server.MinQuery, 1)), 400)
		return false
	}
	return true
}

// filtered reports whether input filtering rejects a non-empty query.
func (s *Server) filtered(query string) bool {
	if !s.config.Server.EnableFilter || query == "" {
		return false
	}
	if !utils.IsValidInput(query) {
		s.logger.Debug("Query filtered out", "query", query)
		return true
	}
	return false
}

// clampLimit applies the per-op default and the server max.
func (s *Server) clampLimit(requested, fallback int) int {
	limit := requested
	if limit < 1 {
		limit = fallback
	}
	return min(limit, s.config.Server.MaxLimit)
}

func (s *Server) handleSearch(req Request) {
	if !s.validateQuery(req, true) {
		return
	}

	opts := search.DefaultSearchOptions[catalog.Product]()
	opts.Threshold = s.config.Search.Threshold
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			s.sendError(req.ID, "Threshold must be within [0, 1]", 400)
			return
		}
		opts.Threshold = *req.Threshold
	}
	opts.Limit = s.clampLimit(req.Limit, s.config.Search.Limit)

	start := time.Now()
	var matches []search.Match[catalog.Product]
	if !s.filtered(req.Query) {
		matches = s.searcher.Search(req.Query, opts)
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(matches))
	hits := make([]SearchHit, len(matches))
	for i, m := range matches {
		hits[i] = SearchHit{
			ID:      m.Item.ID,
			Name:    m.Item.Name,
			Score:   m.Score,
			Matches: m.Matches,
			Rank:    ranks[i],
		}
	}

	s.logger.Debugf("search %q: %d hits in %v", req.Query, len(hits), elapsed)
	s.sendResponse(SearchResponse{
		ID:        req.ID,
		Results:   hits,
		Count:     len(hits),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleComplete(req Request) {
	if !s.validateQuery(req, false) {
		return
	}
	limit := s.clampLimit(req.Limit, s.config.Search.AutocompleteLimit)

	start := time.Now()
	var words []string
	if !s.filtered(req.Query) {
		words = s.cached(OpComplete, req.Query, limit, func() []string {
			return s.searcher.Autocomplete(req.Query, limit)
		})
	}
	s.sendSuggestions(req.ID, words, limit, time.Since(start))
}

func (s *Server) handleSuggest(req Request) {
	if !s.validateQuery(req, false) {
		return
	}
	limit := s.clampLimit(req.Limit, s.config.Search.SuggestLimit)

	start := time.Now()
	var words []string
	if !s.filtered(req.Query) {
		words = s.cached(OpSuggest, req.Query, 0, func() []string {
			return s.searcher.Suggestions(req.Query)
		})
	}
	s.sendSuggestions(req.ID, words, limit, time.Since(start))
}

// cached returns the cached words for op and query, computing and storing them on a miss.
func (s *Server) cached(op, query string, limit int, compute func() []string) []string {
	key := cacheKey(op, query, limit)
	if words, ok := s.cache.Get(key); ok {
		return words
	}
	words := compute()
	s.cache.Put(key, words)
	return words
}

func (s *Server) sendSuggestions(id string, words []string, limit int, elapsed time.Duration) {
	if len(words) > limit {
		words = words[:limit]
	}
	ranks := utils.CreateRankList(len(words))
	suggestions := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		suggestions[i] = CompletionSuggestion{Word: w, Rank: ranks[i]}
	}

	s.sendResponse(CompletionResponse{
		ID:          id,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// reloadConfig re-reads the TOML file. Search fields stay as indexed.
func (s *Server) reloadConfig() {
	if s.configPath == "" {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.logger.Warnf("Config reload failed, keeping current config: %v", err)
		return
	}
	cfg.Search.Fields = s.config.Search.Fields
	s.config = cfg
	s.logger.Debugf("Reloaded config from %s", s.configPath)
}

// sendResponse encodes one msgpack message to the client.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
