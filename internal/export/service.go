package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/biasharafund/discounting/internal/extract"
)

// Service is a tiny façade that produces XLSX bytes from extraction
// results, for back-office review of a processed batch.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExtractionsXLSX returns an XLSX workbook (as bytes) with one row per
// extraction result.
func (s *Service) ExtractionsXLSX(results []extract.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Run ID",
		"Invoice Number",
		"Amount (KES)",
		"Invoice Date",
		"Due Date",
		"Supplier KRA PIN",
		"Buyer KRA PIN",
		"Buyer",
		"Seller",
		"Extraction OK",
		"OCR Confidence",
		"Errors",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		amount := ""
		if r.Invoice.InvoiceAmount != nil {
			amount = r.Invoice.InvoiceAmount.String()
		}

		errs := append([]string{}, r.Document.Errors...)
		errs = append(errs, r.Invoice.ExtractionErrors...)

		write(1, r.RunID.String())
		write(2, r.Invoice.InvoiceNumber)
		write(3, amount)
		write(4, r.Invoice.InvoiceDate)
		write(5, r.Invoice.DueDate)
		write(6, r.Invoice.SupplierKRAPIN)
		write(7, r.Invoice.BuyerKRAPIN)
		write(8, r.Invoice.BuyerDetails.Name)
		write(9, r.Invoice.SellerDetails.Name)
		write(10, r.Invoice.ExtractionSuccess)
		write(11, fmt.Sprintf("%.2f", r.Document.Confidence))
		write(12, truncate(strings.Join(errs, "; "), 200))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 38) // run id
	_ = f.SetColWidth(sheet, "B", "B", 22) // invoice number
	_ = f.SetColWidth(sheet, "C", "E", 14) // amount, dates
	_ = f.SetColWidth(sheet, "F", "G", 18) // pins
	_ = f.SetColWidth(sheet, "H", "I", 28) // parties
	_ = f.SetColWidth(sheet, "L", "L", 60) // errors

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	// cut on a rune boundary so a multi-byte character is never split
	cut := n - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
