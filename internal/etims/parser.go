package etims

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biasharafund/discounting/constants"
)

// PartyDetails is the name-only record extracted for a buyer or seller.
type PartyDetails struct {
	Name string `json:"name,omitempty"`
}

// Fields holds the typed values extracted from one invoice. Every field
// is optional; an absent field is a valid terminal state, not an error.
type Fields struct {
	InvoiceNumber  string           `json:"invoice_number,omitempty"`
	InvoiceAmount  *decimal.Decimal `json:"invoice_amount,omitempty"`
	InvoiceDate    string           `json:"invoice_date,omitempty"` // ISO YYYY-MM-DD
	DueDate        string           `json:"due_date,omitempty"`     // ISO YYYY-MM-DD
	SupplierKRAPIN string           `json:"supplier_kra_pin,omitempty"`
	BuyerKRAPIN    string           `json:"buyer_kra_pin,omitempty"`
	BuyerDetails   PartyDetails     `json:"buyer_details"`
	SellerDetails  PartyDetails     `json:"seller_details"`
}

// Result is the unified outcome of parsing one invoice text. Scores are
// always fully populated (0.0 for absent fields) once extraction runs.
// ExtractionSuccess is true iff both the invoice number and the amount
// were extracted; every other field is best-effort.
type Result struct {
	Fields
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	ExtractionSuccess bool               `json:"extraction_success"`
	ExtractionErrors  []string           `json:"extraction_errors"`
}

// Parser extracts structured eTIMS invoice fields from OCR text using
// ordered pattern tables.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ExtractField runs the field's patterns in order and returns the first
// match, or "" when nothing matches. With multiple capturing groups the
// last participating group wins (later groups are the more specific
// nested captures).
func (p *Parser) ExtractField(text, fieldName string) string {
	for _, re := range fieldPatterns[fieldName] {
		if v, ok := lastGroup(re, text); ok {
			p.logger.Debug("field extracted", "field", fieldName, "pattern", re.String())
			return v
		}
	}
	p.logger.Debug("field not extracted", "field", fieldName)
	return ""
}

// ExtractBuyerDetails extracts the buyer's name, if any.
func (p *Parser) ExtractBuyerDetails(text string) PartyDetails {
	return extractParty(buyerNamePatterns, text)
}

// ExtractSellerDetails extracts the seller's name, if any.
func (p *Parser) ExtractSellerDetails(text string) PartyDetails {
	return extractParty(sellerNamePatterns, text)
}

func extractParty(patterns []*regexp.Regexp, text string) PartyDetails {
	for _, re := range patterns {
		if v, ok := lastGroup(re, text); ok {
			return PartyDetails{Name: v}
		}
	}
	return PartyDetails{}
}

// lastGroup returns the trimmed value of the last participating capture
// group of re's first match in text.
func lastGroup(re *regexp.Regexp, text string) (string, bool) {
	idx := re.FindStringSubmatchIndex(text)
	if idx == nil {
		return "", false
	}
	for g := len(idx)/2 - 1; g >= 1; g-- {
		if idx[2*g] >= 0 {
			return strings.TrimSpace(text[idx[2*g]:idx[2*g+1]]), true
		}
	}
	return "", false
}

// ParseAmount converts an amount string to an exact decimal, stripping
// thousands separators and spaces. Returns nil when unparseable; never
// propagates the failure.
func (p *Parser) ParseAmount(amountStr string) *decimal.Decimal {
	if amountStr == "" {
		return nil
	}
	clean := strings.ReplaceAll(amountStr, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		p.logger.Error("failed to parse amount", "value", amountStr, "error", err)
		return nil
	}
	return &d
}

// dateLayouts are tried in order; eTIMS prints ISO dates, the rest cover
// scanned supplier paperwork. Unpadded layout digits accept padded input.
var dateLayouts = []string{
	"2006-01-02", // eTIMS format
	"2006/1/2",
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
}

// ParseDate normalizes a date string to ISO YYYY-MM-DD. A trailing time
// component ("2025-12-17 21:50:06") is dropped first. Returns "" when no
// layout parses.
func (p *Parser) ParseDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	if parts := strings.Fields(dateStr); len(parts) > 0 {
		dateStr = parts[0]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.Format("2006-01-02")
		}
	}
	p.logger.Error("failed to parse date", "value", dateStr)
	return ""
}

// ParseInvoice extracts all invoice fields from OCR text. It never
// panics past this boundary: unexpected failures are recorded in
// ExtractionErrors and the partially-populated result is still returned.
func (p *Parser) ParseInvoice(text string) (result Result) {
	result.ConfidenceScores = map[string]float64{}
	result.ExtractionErrors = []string{}

	if len(strings.TrimSpace(text)) < 10 {
		result.ExtractionErrors = append(result.ExtractionErrors, "OCR text is empty or too short")
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("error parsing invoice: %v", r)
			result.ExtractionErrors = append(result.ExtractionErrors, msg)
			p.logger.Error("invoice parse recovered", "panic", r)
		}
	}()

	result.InvoiceNumber = p.ExtractField(text, constants.FieldInvoiceNumber)

	if amountStr := p.ExtractField(text, constants.FieldInvoiceAmount); amountStr != "" {
		result.InvoiceAmount = p.ParseAmount(amountStr)
	}

	if dateStr := p.ExtractField(text, constants.FieldInvoiceDate); dateStr != "" {
		result.InvoiceDate = p.ParseDate(dateStr)
	}

	if dueStr := p.ExtractField(text, constants.FieldDueDate); dueStr != "" {
		result.DueDate = p.ParseDate(dueStr)
	}

	if pin := p.ExtractField(text, constants.FieldSupplierKRAPIN); pin != "" {
		result.SupplierKRAPIN = CleanupKRAPIN(pin)
	}
	if pin := p.ExtractField(text, constants.FieldBuyerKRAPIN); pin != "" {
		result.BuyerKRAPIN = CleanupKRAPIN(pin)
	}

	result.BuyerDetails = p.ExtractBuyerDetails(text)
	result.SellerDetails = p.ExtractSellerDetails(text)

	result.ConfidenceScores = Score(result.Fields)

	result.ExtractionSuccess = result.InvoiceNumber != "" && result.InvoiceAmount != nil

	if !result.ExtractionSuccess {
		var missing []string
		if result.InvoiceNumber == "" {
			missing = append(missing, constants.FieldInvoiceNumber)
		}
		if result.InvoiceAmount == nil {
			missing = append(missing, constants.FieldInvoiceAmount)
		}
		result.ExtractionErrors = append(result.ExtractionErrors,
			fmt.Sprintf("failed to extract core fields: %s", strings.Join(missing, ", ")))
	}

	for field, value := range map[string]string{
		constants.FieldInvoiceDate:    result.InvoiceDate,
		constants.FieldDueDate:        result.DueDate,
		constants.FieldSupplierKRAPIN: result.SupplierKRAPIN,
		constants.FieldBuyerKRAPIN:    result.BuyerKRAPIN,
	} {
		if value == "" {
			p.logger.Warn("optional field not extracted", "field", field)
		}
	}

	return result
}
