package analytics

import (
	"fmt"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"buildcost/internal/models"
)

// TopCategoryCount is how many categories the chart shows before folding the
// rest into OtherSliceName.
const TopCategoryCount = 3

// OtherSliceName labels the folded remainder slice.
const OtherSliceName = "Other"

// ChartPalette assigns colors to chart slices by position.
var ChartPalette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4"}

// Summary holds descriptive statistics over a set of expenses.
type Summary struct {
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Highest decimal.Decimal `json:"highest"`
	Lowest  decimal.Decimal `json:"lowest"`
	Count   int             `json:"count"`
}

// CategoryTotal is the summed amount for one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ChartSlice is one segment of the top-categories chart.
type ChartSlice struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Value    decimal.Decimal `json:"value"`
	Color    string          `json:"color"`
}

// MonthComparison compares the spend of the current calendar month with the
// month before it.
type MonthComparison struct {
	CurrentMonth  string          `json:"current_month"`
	PreviousMonth string          `json:"previous_month"`
	CurrentTotal  decimal.Decimal `json:"current_total"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	PercentChange float64         `json:"percent_change"`
}

// MonthTotal is the summed amount for one yyyy-MM month.
type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Total sums the amounts of expenses.
func Total(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total
}

// Summarize computes total, average, highest, lowest and count. All values
// are zero for an empty set.
func Summarize(expenses []models.Expense) Summary {
	if len(expenses) == 0 {
		return Summary{Total: decimal.Zero, Average: decimal.Zero, Highest: decimal.Zero, Lowest: decimal.Zero}
	}

	s := Summary{
		Total:   decimal.Zero,
		Highest: expenses[0].Amount,
		Lowest:  expenses[0].Amount,
		Count:   len(expenses),
	}
	for i := range expenses {
		amount := expenses[i].Amount
		s.Total = s.Total.Add(amount)
		if amount.GreaterThan(s.Highest) {
			s.Highest = amount
		}
		if amount.LessThan(s.Lowest) {
			s.Lowest = amount
		}
	}
	s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	return s
}

// Breakdown sums amounts per category. Categories appear in the order they
// are first seen.
func Breakdown(expenses []models.Expense) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for i := range expenses {
		e := &expenses[i]
		pos, ok := index[e.Category]
		if !ok {
			pos = len(out)
			index[e.Category] = pos
			out = append(out, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[pos].Total = out[pos].Total.Add(e.Amount)
	}
	return out
}

// TopCategories builds the chart series: the TopCategoryCount largest
// categories by total, plus an Other slice when the remainder is positive.
func TopCategories(expenses []models.Expense) []ChartSlice {
	totals := Breakdown(expenses)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})

	n := len(totals)
	if n > TopCategoryCount {
		n = TopCategoryCount
	}

	slices := make([]ChartSlice, 0, n+1)
	for i := 0; i < n; i++ {
		slices = append(slices, ChartSlice{
			Name:     CategoryLabel(totals[i].Category),
			Category: totals[i].Category,
			Value:    totals[i].Total,
			Color:    ChartPalette[i%len(ChartPalette)],
		})
	}

	if len(totals) <= TopCategoryCount {
		return slices
	}
	rest := decimal.Zero
	for _, t := range totals[TopCategoryCount:] {
		rest = rest.Add(t.Total)
	}
	if rest.IsPositive() {
		slices = append(slices, ChartSlice{
			Name:  OtherSliceName,
			Value: rest,
			Color: ChartPalette[TopCategoryCount%len(ChartPalette)],
		})
	}
	return slices
}

// CategoryLabel capitalizes the first letter of a category for display.
func CategoryLabel(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + category[size:]
}

// CompareMonths sums the expenses dated in now's calendar month and in the
// month before, wrapping January to December of the prior year. The percent
// change is 0 when the previous month has no spend.
func CompareMonths(expenses []models.Expense, now time.Time) MonthComparison {
	curYear, curMonth := now.Year(), now.Month()
	prevYear, prevMonth := curYear, curMonth-1
	if prevMonth < time.January {
		prevMonth = time.December
		prevYear--
	}

	cmp := MonthComparison{
		CurrentMonth:  monthKey(curYear, curMonth),
		PreviousMonth: monthKey(prevYear, prevMonth),
		CurrentTotal:  decimal.Zero,
		PreviousTotal: decimal.Zero,
	}
	for i := range expenses {
		d := expenses[i].Date
		switch {
		case d.Year() == curYear && d.Month() == curMonth:
			cmp.CurrentTotal = cmp.CurrentTotal.Add(expenses[i].Amount)
		case d.Year() == prevYear && d.Month() == prevMonth:
			cmp.PreviousTotal = cmp.PreviousTotal.Add(expenses[i].Amount)
		}
	}

	if !cmp.PreviousTotal.IsZero() {
		cmp.PercentChange = cmp.CurrentTotal.Sub(cmp.PreviousTotal).
			Div(cmp.PreviousTotal).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
	}
	return cmp
}

// MonthlyTrend sums amounts per yyyy-MM month, oldest month first.
func MonthlyTrend(expenses []models.Expense) []MonthTotal {
	totals := make(map[string]decimal.Decimal)
	for i := range expenses {
		d := expenses[i].Date
		key := monthKey(d.Year(), d.Month())
		totals[key] = totals[key].Add(expenses[i].Amount)
	}

	out := make([]MonthTotal, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
