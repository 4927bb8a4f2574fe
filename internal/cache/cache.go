package cache

import (
	"sync"
	"time"
)

// Cache is a small in-process TTL cache. The entry handlers use it to keep
// repeated dashboard/list reads off postgres; writes invalidate per user key.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]item
}

type item struct {
	val any
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl: ttl,
		m:   make(map[string]item),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	now := time.Now()
	c.mu.RLock()
	it, ok := c.m[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if now.After(it.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}

	return it.val, true
}

func (c *Cache) Set(key string, val any) {
	c.mu.Lock()
	c.m[key] = item{val: val, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]item)
	c.mu.Unlock()
}
