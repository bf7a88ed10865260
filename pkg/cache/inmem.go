package cache

import (
	"context"
	"sync"
	"time"
)

type inMemEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemCache implements Cache with a mutex-guarded map. Expired entries are
// dropped lazily on Get; there is no background sweeper.
type InMemCache struct {
	mu      sync.RWMutex
	entries map[string]inMemEntry
}

// NewInMemCache creates an empty in-memory cache
func NewInMemCache() *InMemCache {
	return &InMemCache{
		entries: make(map[string]inMemEntry),
	}
}

// Get implements Cache.Get
func (c *InMemCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, ErrMiss
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set implements Cache.Set. A zero ttl means no expiry.
func (c *InMemCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := inMemEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Delete implements Cache.Delete
func (c *InMemCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}
