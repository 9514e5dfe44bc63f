package models

import "github.com/shopspring/decimal"

// Expense is a single recorded construction cost.
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category    string          `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Date        Date            `gorm:"type:date;not null;index" json:"date"`
	VendorID    *string         `gorm:"type:uuid" json:"vendor_id"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor"`
}

// VendorName returns the resolved vendor's name, or "" when there is none.
func (e *Expense) VendorName() string {
	if e.Vendor == nil {
		return ""
	}
	return e.Vendor.Name
}
