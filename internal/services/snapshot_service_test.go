package services

import (
	"context"
	"testing"
	"time"

	"buildcost/internal/cache"
	"buildcost/internal/models"
	"buildcost/internal/testutil"
)

func TestSnapshotLoader_Load(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	vendor := testutil.CreateTestVendor(t, db, user.ID, models.VendorTypeSupplier)
	testutil.CreateTestCustomCategory(t, db, user.ID, "tiles")
	testutil.CreateTestExpense(t, db, user.ID, "100", "tiles", "2024-01-15", &vendor.ID)
	testutil.CreateTestExpense(t, db, user.ID, "200", "labour", "2024-02-10", nil)

	c := newCountingCache()
	loader := NewSnapshotLoader(db, c, time.Minute)

	snap, err := loader.Load(ctx, user.ID)
	testutil.AssertNoError(t, err)

	if len(snap.Expenses) != 2 || len(snap.Vendors) != 1 || len(snap.CustomCategories) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d/%d/%d", len(snap.Expenses), len(snap.Vendors), len(snap.CustomCategories))
	}
	if snap.Expenses[0].Date.String() != "2024-02-10" {
		t.Errorf("expected newest expense first, got %s", snap.Expenses[0].Date)
	}
	if snap.Expenses[1].Vendor == nil {
		t.Error("expected vendor to be preloaded")
	}

	// A later write is invisible until the cache entry is invalidated.
	testutil.CreateTestExpense(t, db, user.ID, "300", "design", "2024-03-01", nil)
	cached, err := loader.Load(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(cached.Expenses) != 2 {
		t.Errorf("expected cached snapshot, got %d expenses", len(cached.Expenses))
	}

	c.Invalidate(ctx, user.ID)
	fresh, err := loader.Load(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(fresh.Expenses) != 3 {
		t.Errorf("expected reload after invalidate, got %d expenses", len(fresh.Expenses))
	}
}

func TestSnapshotLoader_MutationDuringLoad(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, "100", "materials", "2024-01-15", nil)

	c := &interleavingCache{Memory: cache.NewMemory()}
	loader := NewSnapshotLoader(db, c, time.Minute)
	expenses := NewExpenseService(db, c, nil)

	c.beforeSet = func() {
		if err := expenses.DeleteExpense(ctx, user.ID, expense.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	}

	stale, err := loader.Load(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(stale.Expenses) != 1 {
		t.Fatalf("expected the in-flight load to see 1 expense, got %d", len(stale.Expenses))
	}

	snap, err := loader.Load(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if len(snap.Expenses) != 0 {
		t.Errorf("expected the delete to be visible, snapshot still has %d expenses", len(snap.Expenses))
	}
}

func TestSnapshotLoader_EmptyUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	snap, err := NewSnapshotLoader(db, nil, 0).Load(context.Background(), "01900000-0000-7000-8000-000000000000")
	testutil.AssertNoError(t, err)
	if snap.Expenses == nil || snap.Vendors == nil || snap.CustomCategories == nil {
		t.Error("expected empty, non-nil lists")
	}
}
