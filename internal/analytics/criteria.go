// Package analytics filters, aggregates and searches an in-memory snapshot
// of expenses. Every function here is pure: no I/O, no errors, and inputs are
// never mutated.
package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"buildcost/internal/models"
)

// allSentinel is what the dashboard selects send for "no filter".
const allSentinel = "all"

// Criteria is the set of active filter predicates. A nil field is inactive;
// a non-nil field is an AND-combined predicate.
type Criteria struct {
	Category   *string
	VendorID   *string
	VendorType *models.VendorType
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	StartDate  *string // yyyy-MM-dd, inclusive
	EndDate    *string // yyyy-MM-dd, inclusive
	Search     *string
}

// IsEmpty reports whether no predicate is active.
func (c Criteria) IsEmpty() bool {
	return c.Category == nil && c.VendorID == nil && c.VendorType == nil &&
		c.MinAmount == nil && c.MaxAmount == nil &&
		c.StartDate == nil && c.EndDate == nil && c.Search == nil
}

// RawCriteria is the filter form as the client sends it: plain strings where
// "" or "all" mean "no filter".
type RawCriteria struct {
	Category   string `form:"category" json:"category"`
	VendorID   string `form:"vendor_id" json:"vendor_id"`
	VendorType string `form:"vendor_type" json:"vendor_type"`
	MinAmount  string `form:"min_amount" json:"min_amount"`
	MaxAmount  string `form:"max_amount" json:"max_amount"`
	StartDate  string `form:"start_date" json:"start_date"`
	EndDate    string `form:"end_date" json:"end_date"`
	Search     string `form:"search" json:"search"`
}

// ParseCriteria converts client input into Criteria. Sentinels, blank
// values, non-numeric amounts, malformed dates and unknown vendor types all
// leave the corresponding predicate inactive; parsing never fails.
func ParseCriteria(raw RawCriteria) Criteria {
	var c Criteria

	c.Category = optionalString(raw.Category)
	c.VendorID = optionalString(raw.VendorID)

	if v := optionalString(raw.VendorType); v != nil {
		vt := models.VendorType(*v)
		if vt.Valid() {
			c.VendorType = &vt
		}
	}

	c.MinAmount = optionalDecimal(raw.MinAmount)
	c.MaxAmount = optionalDecimal(raw.MaxAmount)
	c.StartDate = optionalDate(raw.StartDate)
	c.EndDate = optionalDate(raw.EndDate)

	if s := strings.TrimSpace(raw.Search); s != "" {
		c.Search = &s
	}

	return c
}

// Raw converts Criteria back to the client form, the inverse of
// ParseCriteria for every valid input.
func (c Criteria) Raw() RawCriteria {
	raw := RawCriteria{
		Category:   allSentinel,
		VendorID:   allSentinel,
		VendorType: allSentinel,
	}
	if c.Category != nil {
		raw.Category = *c.Category
	}
	if c.VendorID != nil {
		raw.VendorID = *c.VendorID
	}
	if c.VendorType != nil {
		raw.VendorType = string(*c.VendorType)
	}
	if c.MinAmount != nil {
		raw.MinAmount = c.MinAmount.String()
	}
	if c.MaxAmount != nil {
		raw.MaxAmount = c.MaxAmount.String()
	}
	if c.StartDate != nil {
		raw.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		raw.EndDate = *c.EndDate
	}
	if c.Search != nil {
		raw.Search = *c.Search
	}
	return raw
}

// Apply returns a copy of c with the single field selected by s set.
// An amount suggestion pins both bounds to the same value.
func (c Criteria) Apply(s Suggestion) Criteria {
	value := s.Value
	switch s.Type {
	case SuggestionCategory:
		c.Category = &value
	case SuggestionVendor:
		c.VendorID = &value
	case SuggestionAmount:
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return c
		}
		lo, hi := amount, amount
		c.MinAmount = &lo
		c.MaxAmount = &hi
	case SuggestionDescription:
		c.Search = &value
	}
	return c
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || v == allSentinel {
		return nil
	}
	return &v
}

func optionalDecimal(v string) *decimal.Decimal {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

func optionalDate(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil
	}
	s := d.String()
	return &s
}
