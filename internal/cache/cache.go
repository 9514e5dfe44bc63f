// Package cache keeps per-user expense snapshots so dashboard, search and
// export requests do not reload the full record set every time.
package cache

import (
	"context"
	"time"

	"buildcost/internal/models"
)

// Snapshot is everything the analytics pipeline needs for one user.
type Snapshot struct {
	Expenses         []models.Expense        `json:"expenses"`
	Vendors          []models.Vendor         `json:"vendors"`
	CustomCategories []models.CustomCategory `json:"custom_categories"`
}

// SnapshotCache stores snapshots by user id. Implementations never fail
// the caller: a broken backend behaves like a miss.
//
// Every Invalidate advances the user's generation. Set only stores a
// snapshot read at the generation it is given, so a load that raced with
// a mutation cannot put the pre-mutation state back.
type SnapshotCache interface {
	Get(ctx context.Context, userID string) (*Snapshot, bool)
	Generation(ctx context.Context, userID string) uint64
	Set(ctx context.Context, userID string, gen uint64, snap *Snapshot, ttl time.Duration)
	Invalidate(ctx context.Context, userID string)
}

// Noop is a SnapshotCache that never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*Snapshot, bool)                 { return nil, false }
func (Noop) Generation(context.Context, string) uint64                     { return 0 }
func (Noop) Set(context.Context, string, uint64, *Snapshot, time.Duration) {}
func (Noop) Invalidate(context.Context, string)                            {}
