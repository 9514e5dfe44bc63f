// Package pagination pages the vendor and custom category lists.
package pagination

import (
	"gorm.io/gorm"
)

// MaxPageSize caps page_size on every listing.
const MaxPageSize = 100

// Default page sizes. Person and category pickers usually want the whole
// list in one request.
const (
	VendorPageSize   = 50
	CategoryPageSize = MaxPageSize
)

// PageRequest holds the page and page_size query parameters.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WithDefaults returns a copy with missing or out-of-range values replaced:
// page 1, defaultSize items, never more than MaxPageSize.
func (p PageRequest) WithDefaults(defaultSize int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the number of rows before the first one on the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Scope limits a query to the requested page.
func (p PageRequest) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.PageSize)
}

// PageResponse is one page of items plus the totals the client needs to
// render a pager.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse builds the response for req. Data is never nil.
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) *PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if req.PageSize > 0 {
		pages = int((totalItems + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: pages,
	}
}
