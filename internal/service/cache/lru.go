package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a TTL cache that evicts the least recently used entry when full.
// It is safe for concurrent use.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
	stats    Stats
	now      func() time.Time
	observe  Observer
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewLRU returns an LRU holding at most capacity entries for ttl each.
// capacity below 1 is treated as 1.
func NewLRU[V any](capacity int, ttl time.Duration, opts ...Option) *LRU[V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newLRU[V](capacity, ttl, cfg)
}

func newLRU[V any](capacity int, ttl time.Duration, cfg config) *LRU[V] {
	capacity = max(capacity, 1)
	return &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      cfg.now,
		observe:  cfg.observe,
	}
}

// Get returns the live value for key and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		c.observe("get", "miss")
		return zero, false
	}

	e := el.Value.(*entry[V])
	if !c.now().Before(e.expiresAt) {
		c.unlink(el)
		c.stats.Misses++
		c.observe("get", "expired")
		return zero, false
	}

	c.order.MoveToFront(el)
	c.stats.Hits++
	c.observe("get", "hit")
	return e.value, true
}

// Set stores value under key, restarting its TTL.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		c.observe("set", "update")
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	c.observe("set", "insert")

	if c.order.Len() > c.capacity {
		c.unlink(c.order.Back())
		c.stats.Evictions++
		c.observe("evict", "capacity")
	}
}

// Invalidate drops key.
func (c *LRU[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.unlink(el)
		c.observe("invalidate", "success")
	}
}

// Clear drops every entry and resets the counters.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	c.stats = Stats{}
}

// Stop is a no-op; an LRU has no background work.
func (c *LRU[V]) Stop() {}

// Purge removes expired entries and returns how many it removed.
func (c *LRU[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry[V]).expiresAt) {
			c.unlink(el)
			removed++
		}
		el = prev
	}
	if removed > 0 {
		c.observe("purge", "expired")
	}
	return removed
}

// Stats returns a snapshot of the counters.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.order.Len()
	s.Capacity = c.capacity
	return s
}

func (c *LRU[V]) unlink(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
