package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"buildcost/internal/analytics"
	"buildcost/internal/cache"
	"buildcost/internal/events"
	"buildcost/internal/export"
	"buildcost/internal/handlers"
	"buildcost/internal/logger"
	"buildcost/internal/middleware"
	"buildcost/internal/money"
	"buildcost/internal/services"
	"buildcost/internal/testutil"
	"buildcost/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Events *eventLog
}

// eventLog records published expense events.
type eventLog struct {
	mu     sync.Mutex
	events []events.ExpenseEvent
}

func (l *eventLog) Publish(_ context.Context, e *events.ExpenseEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *e)
	return nil
}

func (l *eventLog) Close() error { return nil }

func (l *eventLog) types() []events.Type {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.Type, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	snapshots := cache.NewMemory()
	published := &eventLog{}
	formatter := money.NewFormatter("₹", "en-IN")
	renderer := export.NewPDFRenderer(formatter, "Rs.", nil)

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	expenseService := services.NewExpenseService(db, snapshots, published)
	vendorService := services.NewVendorService(db, snapshots)
	categoryService := services.NewCategoryService(db, snapshots)
	loader := services.NewSnapshotLoader(db, snapshots, time.Minute)
	dashboardService := services.NewDashboardService(loader, analytics.NewSuggester(formatter))
	exportService := services.NewExportService(loader, renderer, formatter, 10*time.Second)

	h := &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(userService, auditService),
		Expense:   handlers.NewExpenseHandler(expenseService, auditService),
		Vendor:    handlers.NewVendorHandler(vendorService, auditService),
		Category:  handlers.NewCategoryHandler(categoryService, auditService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Export:    handlers.NewExportHandler(exportService, auditService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	h.Register(router.Group("/api/v1"), middleware.AuthMiddleware())

	return &testApp{DB: db, Router: router, Events: published}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createVendor adds a person and returns its ID.
func (app *testApp) createVendor(t *testing.T, token, name, vendorType string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/vendors", fmt.Sprintf(`{"name":%q,"type":%q}`, name, vendorType), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create vendor failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["vendor"].(map[string]interface{})["id"].(string)
}

// createExpense records an expense and returns its ID. vendorID may be empty.
func (app *testApp) createExpense(t *testing.T, token, amount, category, description, date, vendorID string) string {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%q,"category":%q,"description":%q,"date":%q`, amount, category, description, date)
	if vendorID != "" {
		body += fmt.Sprintf(`,"vendor_id":%q`, vendorID)
	}
	body += "}"
	rec := app.request("POST", "/api/v1/expenses", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)
}
