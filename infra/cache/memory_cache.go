package cache

import (
	"context"
	"sync"
	"time"

	"github.com/casevault/casevault/pkg/cache"
	"github.com/casevault/casevault/pkg/domain/document"
)

// MemoryCache is a process-local DocumentCache. Expired entries are
// swept periodically until Close is called.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

type cacheEntry struct {
	doc       *document.Document
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) (*document.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, nil
	}
	return entry.doc, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, doc *document.Document, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{doc: doc, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Close stops the sweeper.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ cache.DocumentCache = (*MemoryCache)(nil)
