package server

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/search"
	"github.com/vmihailenco/msgpack/v5"
)

func testSearcher() *search.AdvancedSearch[catalog.Product] {
	return search.New([]catalog.Product{
		{ID: "p1", Name: "Пептид А", Category: "Пептиды"},
		{ID: "p2", Name: "Пептид Б", Category: "Пептиды"},
		{ID: "p3", Name: "Тестовый товар", Category: "Прочее"},
	}, []string{"name", "category"})
}

// session runs the server over the given requests and returns a decoder positioned
// after the ready banner.
func session(t *testing.T, cfg *config.Config, configPath string, requests ...any) *msgpack.Decoder {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithIO(testSearcher(), cfg, configPath, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready banner: %v", err)
	}
	if ready.Status != "ready" || ready.ID != "" {
		t.Fatalf("banner = %+v", ready)
	}
	return dec
}

func next[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func words(s []CompletionSuggestion) []string {
	out := make([]string, len(s))
	for i, w := range s {
		out[i] = w.Word
	}
	return out
}

func TestServerSearch(t *testing.T) {
	dec := session(t, nil, "", Request{ID: "s1", Op: OpSearch, Query: "пептид"})

	resp := next[SearchResponse](t, dec)
	if resp.ID != "s1" || resp.Count != 2 || len(resp.Results) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	for i, want := range []string{"p1", "p2"} {
		hit := resp.Results[i]
		if hit.ID != want || hit.Rank != uint16(i+1) {
			t.Errorf("hit %d = %+v, want id %s rank %d", i, hit, want, i+1)
		}
		if hit.Score != 1 || hit.Matches != 2 {
			t.Errorf("hit %d score=%f matches=%d", i, hit.Score, hit.Matches)
		}
	}
	if resp.Results[0].Name != "Пептид А" {
		t.Errorf("name = %q", resp.Results[0].Name)
	}
}

func TestServerSearchEmptyQueryListsCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 2

	dec := session(t, cfg, "",
		Request{ID: "all", Op: OpSearch},
		Request{ID: "lim", Op: OpSearch, Limit: 50},
	)

	for _, id := range []string{"all", "lim"} {
		resp := next[SearchResponse](t, dec)
		if resp.ID != id || resp.Count != 2 {
			t.Errorf("%s: count %d, want max_limit 2", id, resp.Count)
		}
		if len(resp.Results) > 0 && resp.Results[0].ID != "p1" {
			t.Errorf("%s: first = %s, want catalog order", id, resp.Results[0].ID)
		}
	}
}

func TestServerSearchThreshold(t *testing.T) {
	strict := 0.9
	bad := 1.5
	dec := session(t, nil, "",
		Request{ID: "t1", Op: OpSearch, Query: "пептд", Threshold: &strict},
		Request{ID: "t2", Op: OpSearch, Query: "пептд"},
		Request{ID: "t3", Op: OpSearch, Query: "пептд", Threshold: &bad},
	)

	if resp := next[SearchResponse](t, dec); resp.Count != 0 {
		t.Errorf("strict threshold returned %d hits", resp.Count)
	}
	if resp := next[SearchResponse](t, dec); resp.Count != 2 {
		t.Errorf("default threshold returned %d hits, want 2", resp.Count)
	}
	if e := next[CompletionError](t, dec); e.ID != "t3" || e.Code != 400 {
		t.Errorf("out-of-range threshold: %+v", e)
	}
}

func TestServerFilteredQuery(t *testing.T) {
	cfg := config.DefaultConfig()
	dec := session(t, cfg, "",
		Request{ID: "f1", Op: OpSearch, Query: "1111"},
		Request{ID: "f2", Op: OpComplete, Query: "аааа"},
	)

	if resp := next[SearchResponse](t, dec); resp.ID != "f1" || resp.Count != 0 {
		t.Errorf("filtered search = %+v", resp)
	}
	if resp := next[CompletionResponse](t, dec); resp.ID != "f2" || resp.Count != 0 {
		t.Errorf("filtered complete = %+v", resp)
	}
}

func TestServerComplete(t *testing.T) {
	dec := session(t, nil, "",
		Request{ID: "c1", Op: OpComplete, Query: "пептид"},
		Request{ID: "c2", Op: OpComplete, Query: "пептид", Limit: 2},
	)

	resp := next[CompletionResponse](t, dec)
	want := []string{"пептид а", "пептид б", "Пептид А", "Пептиды", "Пептид Б"}
	if got := words(resp.Suggestions); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("complete = %q, want %q", got, want)
	}
	for i, s := range resp.Suggestions {
		if s.Rank != uint16(i+1) {
			t.Errorf("suggestion %d rank %d", i, s.Rank)
		}
	}

	limited := next[CompletionResponse](t, dec)
	if limited.Count != 2 || limited.Suggestions[1].Word != "пептид б" {
		t.Errorf("limited complete = %+v", limited)
	}
}

func TestServerSuggest(t *testing.T) {
	dec := session(t, nil, "",
		Request{ID: "n1", Op: OpSuggest, Query: "купить пептид"},
		Request{ID: "n2", Op: OpSuggest, Query: "пептид", Limit: 1},
		Request{ID: "n3", Op: OpSuggest, Query: "товар"},
	)

	if resp := next[CompletionResponse](t, dec); strings.Join(words(resp.Suggestions), " ") != "а б" {
		t.Errorf("suggest = %+v", resp)
	}
	if resp := next[CompletionResponse](t, dec); resp.Count != 1 || resp.Suggestions[0].Word != "а" {
		t.Errorf("limited suggest = %+v", resp)
	}
	if resp := next[CompletionResponse](t, dec); resp.ID != "n3" || resp.Count != 0 {
		t.Errorf("suggest without successors = %+v", resp)
	}
}

func TestServerErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxQuery = 10

	dec := session(t, cfg, "",
		Request{ID: "e1", Op: "explode"},
		Request{ID: "e2", Op: OpSearch, Query: strings.Repeat("п", 11)},
		Request{ID: "e3", Op: OpComplete},
		42,
		Request{ID: "e4", Op: OpHealth},
	)

	tests := []struct {
		id      string
		message string
	}{
		{"e1", "Unknown op"},
		{"e2", "maximum length of 10"},
		{"e3", "at least 1"},
		{"", "Invalid msgpack"},
	}
	for _, tt := range tests {
		e := next[CompletionError](t, dec)
		if e.ID != tt.id || e.Code != 400 || !strings.Contains(e.Error, tt.message) {
			t.Errorf("error = %+v, want id %q containing %q", e, tt.id, tt.message)
		}
	}

	if status := next[StatusResponse](t, dec); status.ID != "e4" || status.Status != "ok" {
		t.Errorf("server should keep serving after errors, got %+v", status)
	}
}

func TestServerStats(t *testing.T) {
	dec := session(t, nil, "",
		Request{ID: "h", Op: OpHealth},
		Request{ID: "st", Op: OpStats},
	)

	next[StatusResponse](t, dec)
	resp := next[StatsResponse](t, dec)
	if resp.ID != "st" {
		t.Errorf("id = %q", resp.ID)
	}
	if resp.Stats["items"] != 3 || resp.Stats["requests"] != 2 {
		t.Errorf("stats = %v", resp.Stats)
	}
}

func TestServerReloadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nmax_limit = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	requests := make([]any, 0, reloadEvery+1)
	for i := 0; i < reloadEvery-1; i++ {
		requests = append(requests, Request{ID: "h", Op: OpHealth})
	}
	requests = append(requests,
		Request{ID: "reloaded", Op: OpSearch},
	)

	dec := session(t, config.DefaultConfig(), path, requests...)
	for i := 0; i < reloadEvery-1; i++ {
		next[StatusResponse](t, dec)
	}
	if resp := next[SearchResponse](t, dec); resp.Count != 1 {
		t.Errorf("after reload count = %d, want max_limit 1", resp.Count)
	}
}

func TestServerCachesCompletions(t *testing.T) {
	dec := session(t, nil, "",
		Request{ID: "c1", Op: OpComplete, Query: "пептид"},
		Request{ID: "c2", Op: OpComplete, Query: "  ПЕПТИД "},
		Request{ID: "st", Op: OpStats},
	)

	first := next[CompletionResponse](t, dec)
	second := next[CompletionResponse](t, dec)
	if strings.Join(words(first.Suggestions), "|") != strings.Join(words(second.Suggestions), "|") {
		t.Errorf("cached result differs: %q vs %q", words(first.Suggestions), words(second.Suggestions))
	}

	stats := next[StatsResponse](t, dec).Stats
	if stats["cacheHits"] != 1 || stats["cacheMisses"] != 1 || stats["cacheEntries"] != 1 {
		t.Errorf("cache stats = %v", stats)
	}
}
