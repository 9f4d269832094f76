package place

import (
	"sort"
	"sync"
	"time"

	"moodplaces/app"
	"moodplaces/data"
)

// Cache TTLs. An entry older than CacheTTL is treated as absent; an entry
// older than StaleTTL but younger than CacheTTL is returned immediately while
// a background refresh runs.
const (
	CacheTTL     = 5 * time.Minute
	StaleTTL     = 30 * time.Second
	MaxCacheSize = 50

	cacheVersion = 1
	cacheFile    = "details_cache.json"
)

type cacheEntry struct {
	Details   Detail    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// cacheEnvelope is the durable form of the cache. A version mismatch on load
// invalidates the whole store.
type cacheEnvelope struct {
	Entries map[string]cacheEntry `json:"entries"`
	Version int                   `json:"version"`
}

// Cache is a bounded place-detail cache with TTL and staleness tracking.
// Eviction follows insertion order, not read recency. Every mutation
// re-serializes the full store to durable storage; acceptable at 50 entries.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
	now     func() time.Time
}

// NewCache creates a cache, loading any non-expired entries persisted by a
// previous run.
func NewCache() *Cache {
	c := &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	c.load()
	return c
}

func (c *Cache) load() {
	var env cacheEnvelope
	if err := data.LoadJSON(cacheFile, &env); err != nil {
		return
	}
	if env.Version != cacheVersion {
		app.Log("place", "details cache version mismatch (have %d, want %d), starting empty", env.Version, cacheVersion)
		return
	}

	now := c.now()
	for id, entry := range env.Entries {
		if now.Sub(entry.Timestamp) > CacheTTL {
			continue
		}
		c.entries[id] = entry
		c.order = append(c.order, id)
	}
	// The envelope does not record insertion order; approximate it by
	// timestamp so capacity eviction stays oldest-first across restarts.
	sort.Slice(c.order, func(i, j int) bool {
		return c.entries[c.order[i]].Timestamp.Before(c.entries[c.order[j]].Timestamp)
	})
	app.Log("place", "Loaded %d cached place details", len(c.entries))
}

func (c *Cache) persist() {
	env := cacheEnvelope{
		Entries: c.entries,
		Version: cacheVersion,
	}
	if err := data.SaveJSON(cacheFile, env); err != nil {
		app.Log("place", "Failed to persist details cache: %v", err)
	}
}

// Get returns the cached detail for id. ok is false when the entry is absent
// or expired; stale is true when the entry should be revalidated in the
// background. Expired entries are evicted and the eviction persisted.
func (c *Cache) Get(id string) (detail Detail, stale bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[id]
	if !exists {
		return Detail{}, false, false
	}

	age := c.now().Sub(entry.Timestamp)
	if age > CacheTTL {
		c.remove(id)
		c.persist()
		return Detail{}, false, false
	}

	return entry.Details, age > StaleTTL, true
}

// Put inserts or overwrites the entry for id with a fresh timestamp. When the
// store exceeds MaxCacheSize the insertion-oldest entry is evicted. The store
// is persisted synchronously.
func (c *Cache) Put(id string, detail Detail) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; !exists {
		c.order = append(c.order, id)
	}
	c.entries[id] = cacheEntry{
		Details:   detail,
		Timestamp: c.now(),
	}

	if len(c.entries) > MaxCacheSize {
		c.remove(c.order[0])
	}

	c.persist()
}

// Clear empties the in-memory and durable state
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.order = nil
	data.Delete(cacheFile)
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes id from the map and order slice. Caller holds the lock.
func (c *Cache) remove(id string) {
	delete(c.entries, id)
	for i, key := range c.order {
		if key == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
