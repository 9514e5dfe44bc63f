// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"buildcost/internal/models"
)

// AllModels is the list of all GORM models to auto-migrate in tests.
var AllModels = []interface{}{
	&models.User{},
	&models.Vendor{},
	&models.CustomCategory{},
	&models.Expense{},
	&models.AuditLog{},
}

var dbCounter atomic.Int64

// TestDSN returns a DSN for a fresh in-memory SQLite database. Each call
// names a distinct database so tests never see each other's rows.
func TestDSN() string {
	return fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
}

// OpenTestDB opens and migrates a fresh in-memory database without a
// testing.T, for callers that manage their own lifecycle.
func OpenTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(TestDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(AllModels...); err != nil {
		return nil, err
	}
	return db, nil
}

// SetupTestDB creates an in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenTestDB()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
