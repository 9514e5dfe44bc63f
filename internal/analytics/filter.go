package analytics

import (
	"strings"

	"buildcost/internal/models"
)

// Filter returns the expenses that satisfy every active predicate in c, in
// their original order. With no active predicate the input is returned as is.
func Filter(expenses []models.Expense, c Criteria) []models.Expense {
	if c.IsEmpty() {
		return expenses
	}

	var term string
	if c.Search != nil {
		term = strings.ToLower(*c.Search)
	}

	out := make([]models.Expense, 0, len(expenses))
	for i := range expenses {
		if matches(&expenses[i], c, term) {
			out = append(out, expenses[i])
		}
	}
	return out
}

func matches(e *models.Expense, c Criteria, term string) bool {
	if c.Category != nil && e.Category != *c.Category {
		return false
	}
	if c.VendorID != nil && (e.Vendor == nil || e.Vendor.ID != *c.VendorID) {
		return false
	}
	if c.VendorType != nil && (e.Vendor == nil || e.Vendor.Type != *c.VendorType) {
		return false
	}
	if c.MinAmount != nil && e.Amount.LessThan(*c.MinAmount) {
		return false
	}
	if c.MaxAmount != nil && e.Amount.GreaterThan(*c.MaxAmount) {
		return false
	}

	date := e.Date.String()
	if c.StartDate != nil && date < *c.StartDate {
		return false
	}
	if c.EndDate != nil && date > *c.EndDate {
		return false
	}

	if c.Search != nil && !matchesText(e, term) {
		return false
	}
	return true
}

func matchesText(e *models.Expense, term string) bool {
	if e.Description != "" && strings.Contains(strings.ToLower(e.Description), term) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Category), term) {
		return true
	}
	return e.Vendor != nil && strings.Contains(strings.ToLower(e.Vendor.Name), term)
}
