// Package export renders expense lists as downloadable CSV and PDF files.
package export

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"buildcost/internal/models"
)

// CSVHeader is the header row, one column per expense field.
var CSVHeader = []string{"id", "amount", "category", "description", "date", "vendor"}

// EscapeCSVCell doubles embedded quotes and wraps the cell in quotes when it
// contains a comma, a quote or a newline.
func EscapeCSVCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// WriteCSV writes the header and one line per expense to w. An empty list
// produces the header only.
func WriteCSV(w io.Writer, expenses []models.Expense) error {
	if err := writeCSVLine(w, CSVHeader); err != nil {
		return err
	}
	for i := range expenses {
		if err := writeCSVLine(w, csvRecord(&expenses[i])); err != nil {
			return err
		}
	}
	return nil
}

// RenderCSV is WriteCSV into memory.
func RenderCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, expenses); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRecord(e *models.Expense) []string {
	return []string{
		e.ID,
		e.Amount.String(),
		e.Category,
		e.Description,
		e.Date.String(),
		vendorCell(e.Vendor),
	}
}

// vendorCell substitutes the vendor's name, or its JSON form when unnamed.
func vendorCell(v *models.Vendor) string {
	if v == nil {
		return ""
	}
	if v.Name != "" {
		return v.Name
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func writeCSVLine(w io.Writer, cells []string) error {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = EscapeCSVCell(c)
	}
	_, err := io.WriteString(w, strings.Join(escaped, ",")+"\n")
	return err
}
