/*
Package server implements msgpack IPC for catalog search.

The server reads msgpack-encoded requests from stdin and writes one msgpack response per
request to stdout. Logs go to stderr so the stream stays clean.

# IPC

Every request carries an ID, an operation and usually a query:

	{"id": "req_001", "op": "search", "q": "пептид", "l": 20}

Search responses list products ranked by match count and fuzzy score:

	{"id": "req_001", "r": [{"id": "p1", "n": "Пептид А", "sc": 1, "m": 1, "rk": 1}], "c": 1, "t": 412}

Autocomplete and next-word requests share one response shape:

	{"id": "req_002", "op": "complete", "q": "пеп"}
	{"id": "req_002", "s": [{"w": "Пептид А", "r": 1}], "c": 1, "t": 95}

	{"id": "req_003", "op": "suggest", "q": "пептид"}
	{"id": "req_003", "s": [{"w": "а", "r": 1}, {"w": "б", "r": 2}], "c": 2, "t": 8}

"health" and "stats" take no query. Failures come back as CompletionError with a 400 or
500 code. Times are in microseconds.

The server counts requests and reloads its TOML config every reloadEvery requests.
Search fields are fixed at startup since changing them needs a new index.
*/
package server

// Operations understood by the server.
const (
	OpSearch   = "search"
	OpComplete = "complete"
	OpSuggest  = "suggest"
	OpHealth   = "health"
	OpStats    = "stats"
)

// Request is a single IPC request.
type Request struct {
	ID        string   `msgpack:"id"`
	Op        string   `msgpack:"op"`
	Query     string   `msgpack:"q,omitempty"`
	Limit     int      `msgpack:"l,omitempty"`
	Threshold *float64 `msgpack:"th,omitempty"` // search only
}

// SearchHit is one ranked product.
type SearchHit struct {
	ID      string  `msgpack:"id"`
	Name    string  `msgpack:"n"`
	Score   float64 `msgpack:"sc"`
	Matches int     `msgpack:"m"`
	Rank    uint16  `msgpack:"rk"`
}

// SearchResponse answers OpSearch.
type SearchResponse struct {
	ID        string      `msgpack:"id"`
	Results   []SearchHit `msgpack:"r"`
	Count     int         `msgpack:"c"`
	TimeTaken int64       `msgpack:"t"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse answers OpComplete and OpSuggest.
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// StatusResponse answers OpHealth and the startup banner.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// StatsResponse answers OpStats.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
