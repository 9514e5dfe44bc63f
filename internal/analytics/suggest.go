package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"buildcost/internal/models"
	"buildcost/internal/money"
)

// SuggestionType says which Criteria field a suggestion sets when chosen.
type SuggestionType string

const (
	SuggestionCategory    SuggestionType = "category"
	SuggestionVendor      SuggestionType = "vendor"
	SuggestionAmount      SuggestionType = "amount"
	SuggestionDescription SuggestionType = "description"
)

// Suggestion is one typeahead entry. Value is what gets written into the
// criteria; Label is what the user sees; SearchValue is the text the query
// was matched against.
type Suggestion struct {
	Type        SuggestionType `json:"type"`
	Value       string         `json:"value"`
	Label       string         `json:"label"`
	SearchValue string         `json:"search_value"`
}

// SuggestSources is everything a query is matched against.
type SuggestSources struct {
	Categories []string
	Vendors    []models.Vendor
	Expenses   []models.Expense
}

// Suggester builds typeahead suggestions. Amount labels are rendered with
// the configured currency formatter.
type Suggester struct {
	formatter *money.Formatter
}

// NewSuggester creates a Suggester. A nil formatter prints amounts with two
// decimals and no symbol.
func NewSuggester(formatter *money.Formatter) *Suggester {
	return &Suggester{formatter: formatter}
}

// Suggest returns suggestions for query, grouped as categories, vendors,
// one amount (when the whole query is numeric) and then descriptions.
// Matching is case-insensitive substring; a blank query yields nothing.
func (s *Suggester) Suggest(query string, src SuggestSources) []Suggestion {
	if strings.TrimSpace(query) == "" {
		return []Suggestion{}
	}
	q := strings.ToLower(query)
	out := make([]Suggestion, 0)

	for _, c := range src.Categories {
		if strings.Contains(strings.ToLower(c), q) {
			out = append(out, Suggestion{
				Type:        SuggestionCategory,
				Value:       c,
				Label:       "Category: " + c,
				SearchValue: c,
			})
		}
	}

	for i := range src.Vendors {
		v := &src.Vendors[i]
		if !strings.Contains(strings.ToLower(v.Name), q) &&
			!strings.Contains(strings.ToLower(string(v.Type)), q) {
			continue
		}
		out = append(out, Suggestion{
			Type:        SuggestionVendor,
			Value:       v.ID,
			Label:       "Person: " + v.Name + " (" + string(v.Type) + ")",
			SearchValue: v.Name + " " + string(v.Type),
		})
	}

	if amount, err := decimal.NewFromString(strings.TrimSpace(query)); err == nil {
		out = append(out, Suggestion{
			Type:        SuggestionAmount,
			Value:       amount.String(),
			Label:       "Amount: " + s.formatAmount(amount),
			SearchValue: amount.String(),
		})
	}

	seen := make(map[string]struct{})
	for i := range src.Expenses {
		desc := src.Expenses[i].Description
		if desc == "" {
			continue
		}
		if _, dup := seen[desc]; dup {
			continue
		}
		if strings.Contains(strings.ToLower(desc), q) {
			seen[desc] = struct{}{}
			out = append(out, Suggestion{
				Type:        SuggestionDescription,
				Value:       desc,
				Label:       "Description: " + desc,
				SearchValue: desc,
			})
		}
	}

	return out
}

func (s *Suggester) formatAmount(amount decimal.Decimal) string {
	if s.formatter == nil {
		return amount.StringFixed(2)
	}
	return s.formatter.Format(amount)
}
