package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "buildcost/internal/errors"
	"buildcost/internal/models"
	"buildcost/internal/pagination"
	"buildcost/internal/services"
)

// VendorHandler handles requests for the people expenses are attributed to.
type VendorHandler struct {
	vendorService services.VendorServicer
	auditService  services.AuditServicer
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(vendorService services.VendorServicer, auditService services.AuditServicer) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, auditService: auditService}
}

// CreateVendorRequest represents the request payload for adding a person.
type CreateVendorRequest struct {
	Name string            `json:"name" binding:"required,min=1,max=200"`
	Type models.VendorType `json:"type" binding:"required,vendor_type" enums:"engineer,contractor,supplier,labour"`
}

// CreateVendor handles adding a person.
// @Summary     Create a person
// @Description Add an engineer, contractor, supplier, or labourer
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateVendorRequest true "Person details"
// @Success     201 {object} models.Vendor "Person created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors [post]
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), userID, req.Name, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_VENDOR", "vendor", vendor.ID, c.ClientIP(),
		map[string]interface{}{"name": vendor.Name, "type": vendor.Type})

	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}

// GetVendors handles listing the user's people.
// @Summary     Get people
// @Description Get a paginated list of the user's people, ordered by name
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Vendor] "Paginated people"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /vendors [get]
func (h *VendorHandler) GetVendors(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.vendorService.GetUserVendors(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
