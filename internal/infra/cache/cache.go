// Package cache provides a simple in-memory TTL cache.
// Entries slide: every successful Get extends the entry's lifetime, which
// makes the cache suitable for holding idle-expiring device sessions.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// InMemory is a thread-safe in-memory cache with TTL.
type InMemory[T any] struct {
	mu      sync.Mutex
	items   map[string]entry[T]
	ttl     time.Duration
	onEvict func(key string, value T)

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures an InMemory cache.
type Option[T any] func(*InMemory[T])

// WithEvictionHook registers fn to be called, outside the cache lock, for
// every entry that expires, is deleted, or is dropped by Close.
func WithEvictionHook[T any](fn func(key string, value T)) Option[T] {
	return func(c *InMemory[T]) { c.onEvict = fn }
}

// New creates a new in-memory cache with the given TTL.
func New[T any](ttl time.Duration, opts ...Option[T]) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Background cleanup goroutine
	go c.cleanup()
	return c
}

// Get retrieves a value from the cache and refreshes its TTL.
// Returns false if not found or expired; an expired entry is evicted on
// the spot.
func (c *InMemory[T]) Get(key string) (T, bool) {
	var zero T
	now := time.Now()

	c.mu.Lock()
	e, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}
	if now.After(e.expiresAt) {
		delete(c.items, key)
		c.mu.Unlock()
		c.evicted(key, e.value)
		return zero, false
	}
	e.expiresAt = now.Add(c.ttl)
	c.items[key] = e
	c.mu.Unlock()
	return e.value, true
}

// Set stores a value in the cache with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a value from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	e, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if ok {
		c.evicted(key, e.value)
	}
}

// Len returns the number of live entries.
func (c *InMemory[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	n := 0
	for _, e := range c.items {
		if !now.After(e.expiresAt) {
			n++
		}
	}
	return n
}

// Close stops the cleanup goroutine and evicts every remaining entry.
func (c *InMemory[T]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })

	c.mu.Lock()
	items := c.items
	c.items = make(map[string]entry[T])
	c.mu.Unlock()

	for k, e := range items {
		c.evicted(k, e.value)
	}
}

// cleanup periodically removes expired entries.
func (c *InMemory[T]) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *InMemory[T]) sweep() {
	c.mu.Lock()
	now := time.Now()
	expired := make(map[string]T)
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			expired[k] = v.value
			delete(c.items, k)
		}
	}
	c.mu.Unlock()

	for k, v := range expired {
		c.evicted(k, v)
	}
}

func (c *InMemory[T]) evicted(key string, value T) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
