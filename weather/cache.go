package weather

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a TTL-bounded in-process cache for NWS responses, keyed by URL.
// NWS forecasts update at most every few minutes, so short TTLs cut both
// latency and load without serving stale data.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// NewCache creates a response cache. maxCostBytes bounds the total size of
// cached bodies in bytes.
func NewCache(maxCostBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get retrieves a cached body
func (c *Cache) Get(url string) ([]byte, bool) {
	return c.c.Get(url)
}

// Set stores a body with the given TTL
func (c *Cache) Set(url string, body []byte, ttl time.Duration) {
	c.c.SetWithTTL(url, body, int64(len(body)), ttl)
}

// Wait blocks until pending writes are visible. Used by tests; production
// callers tolerate the cache's eventual admission.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Close shuts down the cache and releases resources
func (c *Cache) Close() {
	c.c.Close()
}
