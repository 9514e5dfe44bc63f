package models

// VendorType classifies the person an expense is attributed to.
type VendorType string

const (
	VendorTypeEngineer   VendorType = "engineer"
	VendorTypeContractor VendorType = "contractor"
	VendorTypeSupplier   VendorType = "supplier"
	VendorTypeLabour     VendorType = "labour"
)

// VendorTypes lists every valid vendor type in display order.
var VendorTypes = []VendorType{
	VendorTypeEngineer,
	VendorTypeContractor,
	VendorTypeSupplier,
	VendorTypeLabour,
}

// Valid reports whether t is one of the known vendor types.
func (t VendorType) Valid() bool {
	switch t {
	case VendorTypeEngineer, VendorTypeContractor, VendorTypeSupplier, VendorTypeLabour:
		return true
	}
	return false
}

// Vendor is a person or firm expenses can be attributed to. Vendors never
// own their expenses; the reference lives on Expense.VendorID.
type Vendor struct {
	Base
	UserID string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string     `gorm:"not null" json:"name"`
	Type   VendorType `gorm:"not null" json:"type"`
}
