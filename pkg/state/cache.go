// Package state persists per-instance component form state behind a
// pluggable key/value cache.
package state

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cache is the storage backend used by Manager. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns nil, nil when the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Scan returns every live entry whose key starts with prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}

// ErrClosed is returned by caches used after Close.
var ErrClosed = errors.New("state: cache closed")

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache is an in-process Cache with per-entry TTL. Expired entries are
// dropped lazily on access.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	closed  bool
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if !ok {
		return nil, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}
	return append([]byte(nil), entry.value...), nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.entries[key] = entry
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	now := c.now()
	out := make(map[string][]byte)
	for key, entry := range c.entries {
		if strings.HasPrefix(key, prefix) && !entry.expired(now) {
			out[key] = append([]byte(nil), entry.value...)
		}
	}
	return out, nil
}

// Keys lists live keys in lexical order.
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.now()
	keys := make([]string, 0, len(c.entries))
	for key, entry := range c.entries {
		if !entry.expired(now) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Close releases the entries; later calls return ErrClosed.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.closed = true
	return nil
}
