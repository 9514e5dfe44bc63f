package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	snap      *Snapshot
	expiresAt time.Time
}

// Memory is an in-process SnapshotCache with per-entry expiry.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	gens  map[string]uint64
	now   func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]memoryItem),
		gens:  make(map[string]uint64),
		now:   time.Now,
	}
}

func (c *Memory) Get(_ context.Context, userID string) (*Snapshot, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}
	return item.snap, true
}

func (c *Memory) Generation(_ context.Context, userID string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[userID]
}

func (c *Memory) Set(_ context.Context, userID string, gen uint64, snap *Snapshot, ttl time.Duration) {
	if ttl <= 0 || snap == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[userID] != gen {
		return
	}
	c.items[userID] = memoryItem{snap: snap, expiresAt: c.now().Add(ttl)}
}

func (c *Memory) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.gens[userID]++
	c.mu.Unlock()
}
