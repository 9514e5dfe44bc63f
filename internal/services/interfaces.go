package services

import (
	"context"

	"github.com/shopspring/decimal"

	"buildcost/internal/analytics"
	"buildcost/internal/cache"
	"buildcost/internal/export"
	"buildcost/internal/models"
	"buildcost/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ExpenseInput carries the editable fields of an expense. A nil Date means
// today; a nil VendorID means "no person".
type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        *models.Date
	VendorID    *string
}

// ExpenseServicer defines the contract for expense CRUD.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error)
	GetUserExpenses(ctx context.Context, userID string) ([]models.Expense, error)
	GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, in ExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
}

// VendorServicer defines the contract for vendor ("person") management.
type VendorServicer interface {
	CreateVendor(ctx context.Context, userID, name string, vendorType models.VendorType) (*models.Vendor, error)
	GetUserVendors(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Vendor], error)
}

// CategoryList is the full set of categories available to a user.
type CategoryList struct {
	Predefined []string                `json:"predefined"`
	Custom     []models.CustomCategory `json:"custom"`
	All        []string                `json:"all"`
}

// CategoryServicer defines the contract for custom category management.
type CategoryServicer interface {
	CreateCustomCategory(ctx context.Context, userID, name string) (*models.CustomCategory, error)
	GetCustomCategories(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CustomCategory], error)
	GetAllCategories(ctx context.Context, userID string) (*CategoryList, error)
}

// SnapshotLoader returns the full record set for a user, from cache when
// possible.
type SnapshotLoader interface {
	Load(ctx context.Context, userID string) (*cache.Snapshot, error)
}

// DashboardRow is an expense annotated with its severity level.
type DashboardRow struct {
	models.Expense
	Level analytics.Level `json:"level"`
}

// Dashboard is everything the dashboard page renders for one criteria value.
type Dashboard struct {
	Criteria        analytics.RawCriteria     `json:"criteria"`
	Expenses        []DashboardRow            `json:"expenses"`
	FilteredSummary analytics.Summary         `json:"filtered_summary"`
	TotalSpent      decimal.Decimal           `json:"total_spent"`
	ExpenseCount    int                       `json:"expense_count"`
	Breakdown       []analytics.CategoryTotal `json:"breakdown"`
	TopCategories   []analytics.ChartSlice    `json:"top_categories"`
	MonthComparison analytics.MonthComparison `json:"month_comparison"`
	MonthlyTrend    []analytics.MonthTotal    `json:"monthly_trend"`
}

// DashboardServicer defines the contract for the read-side analytics.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, userID string, criteria analytics.Criteria) (*Dashboard, error)
	Suggest(ctx context.Context, userID, query string) ([]analytics.Suggestion, error)
}

// ExportServicer defines the contract for CSV and PDF exports.
type ExportServicer interface {
	ExportCSV(ctx context.Context, userID string, criteria analytics.Criteria) ([]byte, error)
	PreviewPDF(ctx context.Context, userID string, criteria analytics.Criteria) ([]export.Row, error)
	ExportPDF(ctx context.Context, userID string, criteria analytics.Criteria, excluded []string) ([]byte, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
