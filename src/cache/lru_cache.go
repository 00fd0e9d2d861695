package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// LRUCache is a thread-safe, size-bounded cache whose entries expire after a
// fixed TTL. A zero TTL disables expiry.
type LRUCache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	lru      *list.List
	now      func() time.Time
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewLRUCache creates a cache holding at most capacity entries.
func NewLRUCache[V any](capacity int, ttl time.Duration) *LRUCache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCache[V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
		now:      time.Now,
	}
}

// Get returns the cached value and marks it as most recently used.
func (c *LRUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := elem.Value.(*entry[V])
	if c.expired(ent) {
		c.lru.Remove(elem)
		delete(c.items, key)
		return zero, false
	}
	c.lru.MoveToFront(elem)
	return ent.value, true
}

// Set adds or replaces a value, evicting the least recently used entry when
// the cache is full.
func (c *LRUCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[V]).key)
	}
}

// Clear drops every entry.
func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.lru.Init()
}

// Len returns the number of entries, including ones that expired but were
// not yet touched.
func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *LRUCache[V]) expired(ent *entry[V]) bool {
	return !ent.expiresAt.IsZero() && c.now().After(ent.expiresAt)
}

// HashKey derives a fixed-size cache key from arbitrary text.
func HashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
