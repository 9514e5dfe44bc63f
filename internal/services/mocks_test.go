package services

import (
	"context"
	"sync"
	"time"

	"buildcost/internal/cache"
	"buildcost/internal/events"
	"buildcost/internal/models"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.ExpenseEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.ExpenseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// countingCache wraps the in-memory cache and counts invalidations.
type countingCache struct {
	*cache.Memory
	mu            sync.Mutex
	invalidations int
}

func newCountingCache() *countingCache {
	return &countingCache{Memory: cache.NewMemory()}
}

func (c *countingCache) Invalidate(ctx context.Context, userID string) {
	c.mu.Lock()
	c.invalidations++
	c.mu.Unlock()
	c.Memory.Invalidate(ctx, userID)
}

// interleavingCache runs beforeSet once, between a loader's read and its
// cache write.
type interleavingCache struct {
	*cache.Memory
	beforeSet func()
}

func (c *interleavingCache) Set(ctx context.Context, userID string, gen uint64, snap *cache.Snapshot, ttl time.Duration) {
	if c.beforeSet != nil {
		hook := c.beforeSet
		c.beforeSet = nil
		hook()
	}
	c.Memory.Set(ctx, userID, gen, snap, ttl)
}

// mockSnapshotLoader returns a fixed snapshot or error.
type mockSnapshotLoader struct {
	LoadFn func(ctx context.Context, userID string) (*cache.Snapshot, error)
}

func (m *mockSnapshotLoader) Load(ctx context.Context, userID string) (*cache.Snapshot, error) {
	return m.LoadFn(ctx, userID)
}

func staticLoader(snap *cache.Snapshot) *mockSnapshotLoader {
	return &mockSnapshotLoader{LoadFn: func(context.Context, string) (*cache.Snapshot, error) {
		return snap, nil
	}}
}

// mockPDFRenderer lets tests control PDF rendering.
type mockPDFRenderer struct {
	RenderFn func(ctx context.Context, expenses []models.Expense) ([]byte, error)
}

func (m *mockPDFRenderer) Render(ctx context.Context, expenses []models.Expense) ([]byte, error) {
	return m.RenderFn(ctx, expenses)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
