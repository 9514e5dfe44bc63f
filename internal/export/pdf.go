package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"buildcost/internal/analytics"
	"buildcost/internal/models"
	"buildcost/internal/money"
)

const (
	reportTitle  = "Home Construction Expenses"
	utf8FontName = "ExportSans"
	coreFontName = "Helvetica"
	rowHeight    = 7.0
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 25, "L"},
	{"Category", 28, "L"},
	{"Description", 72, "L"},
	{"Person", 40, "L"},
	{"Amount", 25, "R"},
}

// PDFRenderer draws the expense table. When a font loader is configured the
// document embeds that font and prints the configured currency symbol;
// otherwise it uses the built-in Helvetica, which cannot print every symbol,
// and falls back to the plain-text symbol.
type PDFRenderer struct {
	formatter *money.Formatter
	fallback  *money.Formatter
	fonts     FontLoader
	now       func() time.Time
}

// NewPDFRenderer creates a renderer. fonts may be nil.
func NewPDFRenderer(formatter *money.Formatter, fallbackSymbol string, fonts FontLoader) *PDFRenderer {
	return &PDFRenderer{
		formatter: formatter,
		fallback:  formatter.WithSymbol(fallbackSymbol),
		fonts:     fonts,
		now:       time.Now,
	}
}

// Render writes every expense in order into a single A4 document.
func (r *PDFRenderer) Render(ctx context.Context, expenses []models.Expense) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(reportTitle, true)
	pdf.SetAutoPageBreak(true, 15)

	family := coreFontName
	formatter := r.fallback
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	unicode := false

	if r.fonts != nil {
		font, err := r.fonts.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		if err := CheckTrueType(font); err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(utf8FontName, "", font)
		pdf.AddUTF8FontFromBytes(utf8FontName, "B", font)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("register font: %w", err)
		}
		family = utf8FontName
		formatter = r.formatter
		translate = func(s string) string { return s }
		unicode = true
	}

	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.Cell(0, 10, translate(reportTitle))
	pdf.Ln(10)

	pdf.SetFont(family, "", 10)
	pdf.Cell(0, 6, translate("Generated on "+formatter.Timestamp(r.now())))
	pdf.Ln(10)

	pdf.SetFont(family, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range BuildRows(expenses, formatter) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := []string{row.Date, row.Category, row.Description, row.Person, row.Amount}
		for i, col := range columns {
			text := fit(pdf, translate(cells[i]), col.width-2, unicode)
			pdf.CellFormat(col.width, rowHeight, text, "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont(family, "B", 10)
	pdf.Cell(0, 6, translate(fmt.Sprintf("Total: %s (%d expenses)",
		formatter.Format(analytics.Total(expenses)), len(expenses))))

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fit truncates s with an ellipsis so it fits in width. Core-font text is
// already single-byte encoded and is cut by byte; UTF-8 text is cut by rune.
func fit(pdf *gofpdf.Fpdf, s string, width float64, unicode bool) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	if !unicode {
		for n := len(s) - 1; n > 0; n-- {
			if candidate := s[:n] + "..."; pdf.GetStringWidth(candidate) <= width {
				return candidate
			}
		}
		return ""
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		if candidate := string(runes[:n]) + "..."; pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
