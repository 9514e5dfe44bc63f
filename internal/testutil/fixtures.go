package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"buildcost/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email and the
// password "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestVendor creates a vendor of the given type.
func CreateTestVendor(t *testing.T, db *gorm.DB, userID string, vendorType models.VendorType) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{
		UserID: userID,
		Name:   fmt.Sprintf("Test Person %d", nextID()),
		Type:   vendorType,
	}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("failed to create test vendor: %v", err)
	}
	return vendor
}

// CreateTestCustomCategory creates a custom category with the given name.
func CreateTestCustomCategory(t *testing.T, db *gorm.DB, userID, name string) *models.CustomCategory {
	t.Helper()

	category := &models.CustomCategory{UserID: userID, Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test custom category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense. date is yyyy-MM-dd; vendorID may be nil.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, amount, category, date string, vendorID *string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Date:        models.MustParseDate(date),
		VendorID:    vendorID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
