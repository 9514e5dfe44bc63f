package export

import (
	"fmt"
	"time"

	"buildcost/internal/models"
	"buildcost/internal/money"
)

// Row is one expense laid out for the PDF table and its preview.
type Row struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Person      string `json:"person"`
	Amount      string `json:"amount"`
	Included    bool   `json:"included"`
	Shaded      bool   `json:"shaded"`
}

// BuildRows formats expenses for display. Every row starts included and
// odd rows are shaded.
func BuildRows(expenses []models.Expense, f *money.Formatter) []Row {
	rows := make([]Row, len(expenses))
	for i := range expenses {
		e := &expenses[i]
		rows[i] = Row{
			ID:          e.ID,
			Date:        f.Date(e.Date.Time),
			Category:    e.Category,
			Description: orDash(e.Description),
			Person:      personLabel(e.Vendor),
			Amount:      f.Format(e.Amount),
			Included:    true,
			Shaded:      i%2 == 1,
		}
	}
	return rows
}

// Select drops the expenses whose ids are in excluded, keeping order.
func Select(expenses []models.Expense, excluded []string) []models.Expense {
	if len(excluded) == 0 {
		return expenses
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	out := make([]models.Expense, 0, len(expenses))
	for i := range expenses {
		if _, ok := skip[expenses[i].ID]; !ok {
			out = append(out, expenses[i])
		}
	}
	return out
}

// DefaultFilename returns expenses-yyyy-MM-dd.<ext>.
func DefaultFilename(ext string, now time.Time) string {
	return fmt.Sprintf("expenses-%s.%s", now.Format(models.DateLayout), ext)
}

func personLabel(v *models.Vendor) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", v.Name, v.Type)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
