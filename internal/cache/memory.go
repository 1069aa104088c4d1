package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local Cache used when no Redis URL is configured
// and in tests.
type MemoryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	counter   int64
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Ping(ctx context.Context) error { return ctx.Err() }

func (c *MemoryCache) Close() error { return nil }

func (c *MemoryCache) SetJobSnapshot(ctx context.Context, jobID string, snapshot []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[JobSnapshotKey(jobID)] = memoryEntry{
		value:     append([]byte(nil), snapshot...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) GetJobSnapshot(ctx context.Context, jobID string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(JobSnapshotKey(jobID))
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (c *MemoryCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		e = memoryEntry{expiresAt: c.now().Add(expiry)}
	}
	e.counter++
	c.entries[key] = e
	return e.counter, nil
}

// live must be called with c.mu held.
func (c *MemoryCache) live(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

var _ Cache = (*MemoryCache)(nil)
