package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"buildcost/internal/cache"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/models"
)

// snapshotService loads a user's expenses, vendors and custom categories
// concurrently and caches the result.
type snapshotService struct {
	db    *gorm.DB
	cache cache.SnapshotCache
	ttl   time.Duration
}

// NewSnapshotLoader creates a SnapshotLoader. A nil cache disables caching.
func NewSnapshotLoader(db *gorm.DB, snapshots cache.SnapshotCache, ttl time.Duration) SnapshotLoader {
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	return &snapshotService{db: db, cache: snapshots, ttl: ttl}
}

// Load returns the cached snapshot or reads all three lists from the store.
// The result is cached only if no mutation invalidated the user meanwhile.
func (s *snapshotService) Load(ctx context.Context, userID string) (*cache.Snapshot, error) {
	if snap, ok := s.cache.Get(ctx, userID); ok {
		return snap, nil
	}
	gen := s.cache.Generation(ctx, userID)

	snap := &cache.Snapshot{
		Expenses:         make([]models.Expense, 0),
		Vendors:          make([]models.Vendor, 0),
		CustomCategories: make([]models.CustomCategory, 0),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Preload("Vendor").
			Where("user_id = ?", userID).
			Order("date DESC, created_at DESC").
			Find(&snap.Expenses).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("name ASC").
			Find(&snap.Vendors).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&snap.CustomCategories).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Set(ctx, userID, gen, snap, s.ttl)
	return snap, nil
}
