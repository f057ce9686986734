// Package report renders transaction reports into documents.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04 MST"

	titleWidth    = 32
	categoryWidth = 18
	ellipsis      = "..."

	rowHeight    = 7.0
	marginMM     = 15.0
	bottomMargin = 15.0
)

type column struct {
	header string
	width  float64
	align  string
}

var columns = []column{
	{header: "Date", width: 26, align: "L"},
	{header: "Title", width: 64, align: "L"},
	{header: "Category", width: 40, align: "L"},
	{header: "Type", width: 20, align: "L"},
	{header: "Amount", width: 30, align: "R"},
}

// pdfRenderer implements adapter.ReportRenderer with go-pdf/fpdf.
type pdfRenderer struct{}

// NewPDFRenderer creates a PDF report renderer.
func NewPDFRenderer() adapter.ReportRenderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) ContentType() string { return "application/pdf" }

func (r *pdfRenderer) Extension() string { return "pdf" }

// Render lays out the header, the summary block and the transaction table.
// Pages break when the next row would not fit and the column header is
// repeated on every new page.
func (r *pdfRenderer) Render(ctx context.Context, report *entity.TransactionReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.SetTitle(report.Title, true)
	pdf.SetCreationDate(report.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	writeHeader(pdf, tr, report)
	writeSummary(pdf, tr, report)

	_, pageHeight := pdf.GetPageSize()
	writeColumnHeader(pdf, tr)
	for i, row := range report.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			writeColumnHeader(pdf, tr)
		}
		writeRow(pdf, tr, row, report.Currency, i%2 == 1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string, report *entity.TransactionReport) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(report.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	account := report.AccountName
	if report.AccountEmail != "" {
		account = fmt.Sprintf("%s <%s>", report.AccountName, report.AccountEmail)
	}
	pdf.CellFormat(0, 6, tr(account), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.Format(timestampLayout), "", 1, "L", false, 0, "")

	if caption := periodCaption(report); caption != "" {
		pdf.CellFormat(0, 6, caption, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func periodCaption(report *entity.TransactionReport) string {
	switch {
	case report.StartDate != nil && report.EndDate != nil:
		return fmt.Sprintf("Period: %s to %s", report.StartDate.Format(dateLayout), report.EndDate.Format(dateLayout))
	case report.StartDate != nil:
		return "Period: from " + report.StartDate.Format(dateLayout)
	case report.EndDate != nil:
		return "Period: until " + report.EndDate.Format(dateLayout)
	default:
		return ""
	}
}

func writeSummary(pdf *fpdf.Fpdf, tr func(string) string, report *entity.TransactionReport) {
	s := report.Summary

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	lines := [][2]string{
		{"Total income", fmt.Sprintf("%s (%d)", formatAmount(report.Currency, s.Income.Total.StringFixed(2)), s.Income.Count)},
		{"Total expense", fmt.Sprintf("%s (%d)", formatAmount(report.Currency, s.Expense.Total.StringFixed(2)), s.Expense.Count)},
		{"Net income", formatAmount(report.Currency, s.NetIncome.StringFixed(2))},
		{"Transactions", fmt.Sprintf("%d", s.TotalCount)},
	}
	for _, line := range lines {
		pdf.CellFormat(40, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeColumnHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range columns {
		pdf.CellFormat(c.width, rowHeight, tr(c.header), "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func writeRow(pdf *fpdf.Fpdf, tr func(string) string, row *entity.TransactionWithCategory, currency string, shaded bool) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(242, 242, 242)

	tx := row.Transaction
	categoryName := ""
	if row.Category != nil {
		categoryName = row.Category.Name
	}
	if tx.Currency != "" {
		currency = tx.Currency
	}

	cells := []string{
		tx.Date.Format(dateLayout),
		truncate(tx.Title, titleWidth),
		truncate(categoryName, categoryWidth),
		string(tx.Type),
		formatAmount(currency, tx.Amount.StringFixed(2)),
	}
	for i, c := range columns {
		pdf.CellFormat(c.width, rowHeight, tr(cells[i]), "1", 0, c.align, shaded, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(currency, amount string) string {
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

// truncate shortens s to at most width runes, ending in an ellipsis when cut.
func truncate(s string, width int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-len(ellipsis)]) + ellipsis
}
