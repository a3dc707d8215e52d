package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fooddex/backend/internal/domain"
)

const defaultSweepInterval = 10 * time.Minute

// entry is a single cached value with its expiration
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-memory store with per-entry TTL.
// Expired entries are invisible immediately and swept periodically.
type MemoryCache[V any] struct {
	data  map[string]entry[V]
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a cache that sweeps expired entries every sweepInterval
// (10 minutes when zero). Call Close to stop the sweeper.
func NewMemoryCache[V any](sweepInterval time.Duration) *MemoryCache[V] {
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	c := &MemoryCache[V]{
		data: make(map[string]entry[V]),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go c.sweep(sweepInterval)

	return c
}

// NewDatasetStore returns a MemoryCache holding dataset snapshots
func NewDatasetStore(sweepInterval time.Duration) *MemoryCache[*domain.Dataset] {
	return NewMemoryCache[*domain.Dataset](sweepInterval)
}

// Get retrieves a value from the cache
func (c *MemoryCache[V]) Get(ctx context.Context, key string) (V, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var zero V
	item, exists := c.data[key]
	if !exists || c.now().After(item.expiresAt) {
		return zero, domain.ErrCacheMiss
	}

	return item.value, nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		return domain.ErrInvalidRequest
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache[V]) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache[V]) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}

	return !c.now().After(item.expiresAt), nil
}

// Size returns the number of stored entries, expired ones included until swept
func (c *MemoryCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]entry[V])
}

// Close stops the background sweeper. It is safe to call more than once.
func (c *MemoryCache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache[V]) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache[V]) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, key)
		}
	}
}
