package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"buildcost/internal/analytics"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/services"
)

// DashboardHandler serves the filtered dashboard and the search box.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// ApplySuggestionRequest pairs the current filter form with the chosen
// suggestion.
type ApplySuggestionRequest struct {
	Criteria   analytics.RawCriteria `json:"criteria"`
	Suggestion analytics.Suggestion  `json:"suggestion"`
}

// ApplySuggestionResponse is the filter form after applying a suggestion.
type ApplySuggestionResponse struct {
	Criteria analytics.RawCriteria `json:"criteria"`
}

// GetDashboard handles the filtered dashboard.
// @Summary     Get dashboard
// @Description Filter the user's expenses and return rows with severity, totals, category breakdown, top-category chart, month comparison and monthly trend. Unparseable filter values are ignored.
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       category    query string false "Category name or 'all'"
// @Param       vendor_id   query string false "Person ID or 'all'"
// @Param       vendor_type query string false "engineer, contractor, supplier, labour or 'all'"
// @Param       min_amount  query string false "Inclusive lower bound"
// @Param       max_amount  query string false "Inclusive upper bound"
// @Param       start_date  query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date    query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       search      query string false "Case-insensitive text over description, category and person"
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	criteria, err := bindCriteriaQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), userID, criteria)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetSuggestions handles the search typeahead.
// @Summary     Search suggestions
// @Description Suggest categories, people, an exact amount and descriptions matching q
// @Tags        search
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       q query string false "Search text"
// @Success     200 {array} analytics.Suggestion "Suggestions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /search/suggestions [get]
func (h *DashboardHandler) GetSuggestions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	suggestions, err := h.dashboardService.Suggest(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ApplySuggestion handles choosing a suggestion.
// @Summary     Apply a suggestion
// @Description Set the filter field selected by the suggestion and return the updated filter form
// @Tags        search
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ApplySuggestionRequest true "Current filter and chosen suggestion"
// @Success     200 {object} ApplySuggestionResponse "Updated filter"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /search/apply [post]
func (h *DashboardHandler) ApplySuggestion(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req ApplySuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	switch req.Suggestion.Type {
	case analytics.SuggestionCategory, analytics.SuggestionVendor,
		analytics.SuggestionAmount, analytics.SuggestionDescription:
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown suggestion type"))
		return
	}

	criteria := analytics.ParseCriteria(req.Criteria).Apply(req.Suggestion)

	c.JSON(http.StatusOK, ApplySuggestionResponse{Criteria: criteria.Raw()})
}

// bindCriteriaQuery reads the filter form from the query string.
func bindCriteriaQuery(c *gin.Context) (analytics.Criteria, error) {
	var raw analytics.RawCriteria
	if err := c.ShouldBindQuery(&raw); err != nil {
		return analytics.Criteria{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return analytics.ParseCriteria(raw), nil
}
