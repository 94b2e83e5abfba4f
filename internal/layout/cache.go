package layout

import (
	"sync"

	"llnode/internal/types"
)

type cacheEntry struct {
	Layout TypeLayout
	Err    *LayoutError
}

// cache is shared by every function body built in parallel.
type cache struct {
	mu     sync.RWMutex
	byType map[types.TypeID]cacheEntry
}

func newCache() *cache {
	return &cache{byType: make(map[types.TypeID]cacheEntry, 256)}
}

func (c *cache) get(id types.TypeID) (cacheEntry, bool) {
	if c == nil {
		return cacheEntry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.byType[id]
	return l, ok
}

func (c *cache) put(id types.TypeID, e *cacheEntry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e == nil {
		delete(c.byType, id)
		return
	}
	c.byType[id] = *e
}

func (c *cache) reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.byType)
}
