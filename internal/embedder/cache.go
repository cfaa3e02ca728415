package embedder

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCacheBudgetBytes is the default total weight the cache will hold
// before evicting, matching the original embedding cache's moka weigher
// policy of vector_len*4 bytes per entry under a configured byte budget.
const DefaultCacheBudgetBytes = 500 * 1024 * 1024 // 500 MiB

// cacheKey combines the model identity into the lookup so switching models
// never serves a stale vector from a different embedding space.
type cacheKey struct {
	modelID string
	hash    string
}

// entryWeight is vector_dim * 4 bytes (one float32 per dimension), the
// same weigher the original cache uses.
func entryWeight(vec []float32) int64 {
	return int64(len(vec)) * 4
}

// Cache is a byte-budgeted LRU cache of (model, content hash) -> vector,
// kept in a single recency list; it has no separate probationary and
// protected segments. It never partially evicts an entry: eviction removes
// whole entries, oldest-accessed first, until total weight is back under
// budget.
// Shared between the indexing and query paths so repeated queries are free
// after the first lookup.
type Cache struct {
	mu     sync.Mutex
	lru    *lru.LRU[cacheKey, []float32]
	budget int64
	weight int64
}

// NewCache returns a cache bounded by budgetBytes total weight. A
// non-positive budget uses DefaultCacheBudgetBytes.
func NewCache(budgetBytes int64) *Cache {
	if budgetBytes <= 0 {
		budgetBytes = DefaultCacheBudgetBytes
	}
	c := &Cache{budget: budgetBytes}
	// size is a soft cap far above what the byte budget would ever allow;
	// eviction is driven by weight, not count, via RemoveOldest below.
	inner, _ := lru.NewLRU[cacheKey, []float32](1<<31-1, func(_ cacheKey, v []float32) {
		c.weight -= entryWeight(v)
	})
	c.lru = inner
	return c
}

// Get returns a copy of the cached vector for (modelID, hash), so callers
// mutating the result never corrupt the cached entry.
func (c *Cache) Get(modelID, hash string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(cacheKey{modelID, hash})
	if !ok {
		return nil, false
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, true
}

// Set stores vec under (modelID, hash), evicting the least-recently-used
// entries until total weight is within budget.
func (c *Cache) Set(modelID, hash string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey{modelID, hash}
	if old, ok := c.lru.Peek(key); ok {
		c.weight -= entryWeight(old)
	}
	c.lru.Add(key, vec)
	c.weight += entryWeight(vec)
	for c.weight > c.budget {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Weight returns the current total weight in bytes.
func (c *Cache) Weight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weight
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.weight = 0
}
