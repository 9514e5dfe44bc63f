package services

import (
	"context"
	"testing"

	"buildcost/internal/models"
	"buildcost/internal/pagination"
	"buildcost/internal/testutil"
)

func TestCreateVendor(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		c := newCountingCache()
		svc := NewVendorService(db, c)
		user := testutil.CreateTestUser(t, db)

		vendor, err := svc.CreateVendor(ctx, user.ID, "  Ravi Kumar ", models.VendorTypeContractor)
		testutil.AssertNoError(t, err)

		if vendor.Name != "Ravi Kumar" {
			t.Errorf("expected trimmed name, got %q", vendor.Name)
		}
		if vendor.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, vendor.UserID)
		}
		if c.invalidations != 1 {
			t.Errorf("expected cache invalidation, got %d", c.invalidations)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewVendorService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateVendor(ctx, user.ID, "   ", models.VendorTypeLabour)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewVendorService(db, nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateVendor(ctx, user.ID, "Asha", models.VendorType("architect"))
		testutil.AssertAppError(t, err, "INVALID_VENDOR_TYPE")
	})
}

func TestGetUserVendors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewVendorService(db, nil)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	for _, name := range []string{"Zara", "Arun", "Meena"} {
		_, err := svc.CreateVendor(ctx, user.ID, name, models.VendorTypeSupplier)
		testutil.AssertNoError(t, err)
	}
	testutil.CreateTestVendor(t, db, other.ID, models.VendorTypeSupplier)

	page, err := svc.GetUserVendors(ctx, user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 {
		t.Errorf("expected 3 total vendors, got %d", page.TotalItems)
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
	if len(page.Data) != 2 || page.Data[0].Name != "Arun" || page.Data[1].Name != "Meena" {
		t.Errorf("unexpected first page %+v", page.Data)
	}

	empty, err := svc.GetUserVendors(ctx, "01900000-0000-7000-8000-000000000000", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if empty.Data == nil || len(empty.Data) != 0 {
		t.Error("expected an empty, non-nil list")
	}
	if empty.PageSize != pagination.VendorPageSize || empty.TotalPages != 0 {
		t.Errorf("expected default page size %d and no pages, got %d/%d", pagination.VendorPageSize, empty.PageSize, empty.TotalPages)
	}
}
