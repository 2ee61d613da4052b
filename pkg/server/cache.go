package server

import (
	"math"
	"strconv"
	"sync"

	"github.com/bastiangx/catalogserve/pkg/search"
	"github.com/charmbracelet/log"
)

// completionCache keeps recent complete/suggest results keyed by op, limit and
// normalized query. The least recently used entry is evicted when full.
// A nil cache never hits.
type completionCache struct {
	entries     map[string][]string
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	maxEntries  int
	mu          sync.Mutex
}

func newCompletionCache(maxEntries int) *completionCache {
	if maxEntries <= 0 {
		return nil
	}
	return &completionCache{
		entries:    make(map[string][]string, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func cacheKey(op, query string, limit int) string {
	return op + "\x00" + strconv.Itoa(limit) + "\x00" + search.Normalize(query)
}

// Get returns a cached result and marks it as recently used.
func (cc *completionCache) Get(key string) ([]string, bool) {
	if cc == nil {
		return nil, false
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	words, ok := cc.entries[key]
	if !ok {
		cc.misses++
		return nil, false
	}
	cc.hits++
	cc.accessTime[key] = cc.nextAccessTime()
	return words, true
}

// Put stores words under key, evicting the oldest entry if the cache is full.
func (cc *completionCache) Put(key string, words []string) {
	if cc == nil {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if _, exists := cc.entries[key]; !exists && len(cc.entries) >= cc.maxEntries {
		cc.evictLRU()
	}
	cc.entries[key] = words
	cc.accessTime[key] = cc.nextAccessTime()
}

// Stats reports cache occupancy and hit counters.
func (cc *completionCache) Stats() map[string]int {
	if cc == nil {
		return map[string]int{"cacheEntries": 0, "cacheMaxEntries": 0, "cacheHits": 0, "cacheMisses": 0}
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    len(cc.entries),
		"cacheMaxEntries": cc.maxEntries,
		"cacheHits":       cc.hits,
		"cacheMisses":     cc.misses,
	}
}

func (cc *completionCache) nextAccessTime() int64 {
	cc.accessCount++
	return cc.accessCount
}

func (cc *completionCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, accessTime := range cc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(cc.entries, oldestKey)
		delete(cc.accessTime, oldestKey)
		log.Debugf("Evicted %q from completion cache", oldestKey)
	}
}
