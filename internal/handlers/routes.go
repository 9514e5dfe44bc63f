package handlers

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth      *AuthHandler
	Expense   *ExpenseHandler
	Vendor    *VendorHandler
	Category  *CategoryHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// Register mounts the API on v1. Everything except registration, login and
// refresh goes through requireAuth.
func (h *Handlers) Register(v1 *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	protected := v1.Group("/")
	protected.Use(requireAuth)

	protected.GET("/profile", h.Auth.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PUT("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	vendors := protected.Group("/vendors")
	vendors.POST("", h.Vendor.CreateVendor)
	vendors.GET("", h.Vendor.GetVendors)

	categories := protected.Group("/categories")
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/custom", h.Category.GetCustomCategories)

	protected.GET("/dashboard", h.Dashboard.GetDashboard)

	search := protected.Group("/search")
	search.GET("/suggestions", h.Dashboard.GetSuggestions)
	search.POST("/apply", h.Dashboard.ApplySuggestion)

	exports := protected.Group("/exports")
	exports.GET("/csv", h.Export.ExportCSV)
	exports.POST("/pdf/preview", h.Export.PreviewPDF)
	exports.POST("/pdf", h.Export.ExportPDF)
}
