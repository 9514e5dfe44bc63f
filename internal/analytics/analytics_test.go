package analytics

import (
	"github.com/shopspring/decimal"

	"buildcost/internal/models"
)

var (
	alice = &models.Vendor{Base: models.Base{ID: "v-alice"}, Name: "Alice Rao", Type: models.VendorTypeEngineer}
	bob   = &models.Vendor{Base: models.Base{ID: "v-bob"}, Name: "Bob Steel", Type: models.VendorTypeSupplier}
)

func expense(id, amount, category, date string) models.Expense {
	return models.Expense{
		Base:     models.Base{ID: id},
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     models.MustParseDate(date),
	}
}

func withVendor(e models.Expense, v *models.Vendor) models.Expense {
	e.Vendor = v
	e.VendorID = &v.ID
	return e
}

func withDescription(e models.Expense, d string) models.Expense {
	e.Description = d
	return e
}

func ids(expenses []models.Expense) []string {
	out := make([]string, len(expenses))
	for i := range expenses {
		out[i] = expenses[i].ID
	}
	return out
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
