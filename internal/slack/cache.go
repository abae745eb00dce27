package slack

import "sync"

// Cache is a memoizing lookup keyed by entity id. Entries are never
// invalidated or evicted: the same author or channel shows up in hundreds of
// messages within one reconciliation pass, and a per-occurrence remote call
// would multiply API traffic by the item count. The cache lives only as long
// as the owning Client, so a fresh process pays the first lookup again —
// acceptable, since a full pass re-fetches the channel and member lists
// anyway.
type Cache[V any] struct {
	mu sync.Mutex
	m  map[string]V
}

// NewCache returns an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{m: make(map[string]V)}
}

// Get returns the cached value for id, calling load exactly once per id to
// populate it. A load error is returned without caching, so the next Get
// retries the lookup.
func (c *Cache[V]) Get(id string, load func(string) (V, error)) (V, error) {
	c.mu.Lock()
	if v, ok := c.m[id]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := load(id)
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	c.m[id] = v
	c.mu.Unlock()
	return v, nil
}

// Len reports the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
