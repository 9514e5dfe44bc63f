// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"buildcost/internal/models"
)

// maxCategoryNameLength matches the custom_categories.name column.
const maxCategoryNameLength = 100

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("vendor_type", validateVendorType)
		_ = v.RegisterValidation("iso_date", validateISODate)
		_ = v.RegisterValidation("category_name", validateCategoryName)
		_ = v.RegisterValidation("amount", validateAmount)
	}
}

func validateVendorType(fl validator.FieldLevel) bool {
	return models.VendorType(fl.Field().String()).Valid()
}

// validateISODate accepts yyyy-MM-dd.
func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// validateCategoryName requires a non-blank name that fits the column once
// trimmed.
func validateCategoryName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return name != "" && len(name) <= maxCategoryNameLength
}

// validateAmount requires a non-negative decimal with at most two places.
func validateAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil || d.IsNegative() {
		return false
	}
	return d.Equal(d.Round(2))
}
