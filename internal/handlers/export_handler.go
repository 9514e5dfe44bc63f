package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"

	"buildcost/internal/analytics"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/export"
	"buildcost/internal/services"
)

const (
	csvContentType = "text/csv; charset=utf-8"
	pdfContentType = "application/pdf"

	maxFilenameLength = 128
)

// ExportHandler serves CSV and PDF downloads of the filtered expenses.
type ExportHandler struct {
	exportService services.ExportServicer
	auditService  services.AuditServicer
	now           func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService services.ExportServicer, auditService services.AuditServicer) *ExportHandler {
	return &ExportHandler{exportService: exportService, auditService: auditService, now: time.Now}
}

// PDFPreviewRequest carries the filter whose rows should be previewed.
type PDFPreviewRequest struct {
	Criteria analytics.RawCriteria `json:"criteria"`
}

// PDFPreviewResponse lists the rows a PDF export would contain.
type PDFPreviewResponse struct {
	Rows []export.Row `json:"rows"`
}

// PDFExportRequest carries the filter, the rows unticked in the preview,
// and an optional filename.
type PDFExportRequest struct {
	Criteria    analytics.RawCriteria `json:"criteria"`
	ExcludedIDs []string              `json:"excluded_ids" binding:"omitempty,max=10000"`
	Filename    string                `json:"filename" binding:"max=255"`
}

// ExportCSV handles the CSV download.
// @Summary     Export CSV
// @Description Download the expenses matching the filter as CSV. An empty selection yields the header row only.
// @Tags        exports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       category    query string false "Category name or 'all'"
// @Param       vendor_id   query string false "Person ID or 'all'"
// @Param       vendor_type query string false "Person type or 'all'"
// @Param       min_amount  query string false "Inclusive lower bound"
// @Param       max_amount  query string false "Inclusive upper bound"
// @Param       start_date  query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date    query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       search      query string false "Search text"
// @Param       filename    query string false "Download name (default expenses-YYYY-MM-DD.csv)"
// @Success     200 {file} file "CSV file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Export already running"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /exports/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
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

	data, err := h.exportService.ExportCSV(c.Request.Context(), userID, criteria)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := h.filename(c.Query("filename"), "csv")
	h.auditService.Log(userID, "EXPORT_CSV", "export", "", c.ClientIP(),
		map[string]interface{}{"filename": filename})

	sendAttachment(c, filename, csvContentType, data)
}

// PreviewPDF handles the pre-export selection step.
// @Summary     Preview PDF rows
// @Description List the rows a PDF export would contain, all included, with alternating shading
// @Tags        exports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PDFPreviewRequest true "Filter"
// @Success     200 {object} PDFPreviewResponse "Preview rows"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /exports/pdf/preview [post]
func (h *ExportHandler) PreviewPDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PDFPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rows, err := h.exportService.PreviewPDF(c.Request.Context(), userID, analytics.ParseCriteria(req.Criteria))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, PDFPreviewResponse{Rows: rows})
}

// ExportPDF handles the PDF download.
// @Summary     Export PDF
// @Description Download the expenses matching the filter, minus the excluded rows, as a PDF table
// @Tags        exports
// @Accept      json
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       request body PDFExportRequest true "Filter, excluded rows and filename"
// @Success     200 {file} file "PDF file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Export already running"
// @Failure     422 {object} ErrorResponse "No rows selected"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /exports/pdf [post]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PDFExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	data, err := h.exportService.ExportPDF(c.Request.Context(), userID,
		analytics.ParseCriteria(req.Criteria), req.ExcludedIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := h.filename(req.Filename, "pdf")
	h.auditService.Log(userID, "EXPORT_PDF", "export", "", c.ClientIP(),
		map[string]interface{}{"filename": filename, "excluded": len(req.ExcludedIDs)})

	sendAttachment(c, filename, pdfContentType, data)
}

// filename cleans a caller-supplied download name, forcing the extension.
// Blank or unusable names fall back to the date-stamped default.
func (h *ExportHandler) filename(requested, ext string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, requested)
	name = strings.TrimSpace(filepath.Base(strings.TrimSpace(name)))
	if name == "" || name == "." || name == ".." || name == "/" {
		return export.DefaultFilename(ext, h.now())
	}

	suffix := "." + ext
	if !strings.EqualFold(filepath.Ext(name), suffix) {
		name += suffix
	}
	if len(name) > maxFilenameLength {
		return export.DefaultFilename(ext, h.now())
	}
	return name
}
