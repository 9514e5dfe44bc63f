package models

// PredefinedCategories is the fixed category enumeration every user starts
// with. Custom categories extend it.
var PredefinedCategories = []string{
	"materials",
	"labour",
	"equipment",
	"permits",
	"design",
	"utilities",
	"transport",
	"other",
}

// IsPredefinedCategory reports whether name is in PredefinedCategories.
func IsPredefinedCategory(name string) bool {
	for _, c := range PredefinedCategories {
		if c == name {
			return true
		}
	}
	return false
}

// CustomCategory is a user-defined category name. Append-only.
type CustomCategory struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_custom_categories_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_custom_categories_user_name" json:"name"`
}
