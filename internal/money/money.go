// Package money formats amounts and dates for display and export.
package money

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// dateLayouts mirrors the short date form browsers print for each locale.
var dateLayouts = map[string]string{
	"US": "1/2/2006",
	"IN": "2/1/2006",
	"GB": "02/01/2006",
	"AU": "02/01/2006",
}

// Formatter renders currency as <symbol><grouped number with 2 decimals>
// and dates in the locale's short form.
type Formatter struct {
	symbol     string
	tag        language.Tag
	printer    *message.Printer
	dateLayout string
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "en-IN".
// Unknown locales fall back to English grouping and ISO dates.
func NewFormatter(symbol, locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	layout := "2006-01-02"
	if region, conf := tag.Region(); conf == language.Exact {
		if l, ok := dateLayouts[region.String()]; ok {
			layout = l
		}
	}

	return &Formatter{
		symbol:     symbol,
		tag:        tag,
		printer:    message.NewPrinter(tag),
		dateLayout: layout,
	}
}

// Symbol returns the currency symbol prefix.
func (f *Formatter) Symbol() string {
	return f.symbol
}

// WithSymbol returns a copy using a different currency symbol.
func (f *Formatter) WithSymbol(symbol string) *Formatter {
	clone := *f
	clone.symbol = symbol
	return &clone
}

// Number formats amount with locale grouping and exactly two decimals.
func (f *Formatter) Number(amount decimal.Decimal) string {
	v := amount.Round(2).InexactFloat64()
	return f.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// Format formats amount as a currency string, e.g. "₹1,234.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.symbol + f.Number(amount)
}

// Date formats a calendar date in the locale's short form.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.dateLayout)
}

// Timestamp formats an instant as the short date followed by HH:MM.
func (f *Formatter) Timestamp(t time.Time) string {
	return t.Format(f.dateLayout + " 15:04")
}
