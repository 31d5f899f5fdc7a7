package etims

import (
	"regexp"

	"github.com/biasharafund/discounting/constants"
)

// Each field maps to an ordered list of patterns tried first-match-wins.
// Order is a deliberate precedence policy: specific structural markers
// (the SCU ID label, a KRAS-prefixed control-unit number) outrank generic
// totals and labels that could hit the wrong line on a dense page. All
// patterns run case-insensitive with dot matching newlines, because OCR
// output freely reflows the printed layout.
//
// The bare `Total:` amount fallback is a known precision/recall tradeoff:
// on a densely formatted page it can match a subtotal above the real
// grand total. Kept as-is; tightening it would trade recall on the many
// eTIMS receipts where `Total` is the only amount label.
var fieldPatterns = map[string][]*regexp.Regexp{
	constants.FieldInvoiceNumber: {
		regexp.MustCompile(`(?is)SCU\s+ID\s*:?\s*([A-Z0-9]+)`), // best: scanner-unit ID
		regexp.MustCompile(`(?is)(KRAS[RN][NO0]+\d+/\d+)`),     // CU invoice number shape
		regexp.MustCompile(`(?is)Receipt\s+Signature\s*:?\s*([A-Z0-9]{10,})`),
		regexp.MustCompile(`(?is)CU\s+Invoice\s+Number\s*:?\s*\n.*?([A-Z0-9]+/\d+)`),
	},
	constants.FieldInvoiceAmount: {
		regexp.MustCompile(`(?is)Total\s+Amount\s*:?\s*(?:KES|KSH)?\s*([0-9,]+\.?\d*)`),
		regexp.MustCompile(`(?is)Grand\s*Total\s*:?\s*(?:KES|KSH)?\s*([0-9,]+\.?\d*)`),
		regexp.MustCompile(`(?is)Amount\s*(?:Due|Payable)\s*:?\s*(?:KES|KSH)?\s*([0-9,]+\.?\d*)`),
		regexp.MustCompile(`(?is)Total\s*:?\s*(?:KES|KSH)?\s*([0-9,]+\.?\d*)`),
	},
	constants.FieldInvoiceDate: {
		regexp.MustCompile(`(?is)Date\s+Created\s*:?\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?is)Invoice\s*Date\s*:?\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?is)Date\s*:?\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?is)Date\s+Created\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?is)Invoice\s*Date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	},
	constants.FieldDueDate: {
		regexp.MustCompile(`(?is)Due\s*Date\s*:?\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?is)Payment\s*Due\s*:?\s*(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?is)Due\s*Date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?is)Payment\s*Due\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	},
	constants.FieldSupplierKRAPIN: {
		regexp.MustCompile(`(?is)(?:Sale\s+From|Seller|Supplier).*?PIN\s*:?\s*([A-Z][0-9]{9}[A-Z])`),
		regexp.MustCompile(`(?ism)(?:^|\n)PIN\s*:?\s*([A-Z][0-9]{9}[A-Z])`), // first PIN occurrence (seller)
	},
	constants.FieldBuyerKRAPIN: {
		// second PIN in the document (after an email or LIMITED); the
		// character class tolerates O-for-0 misreads fixed up later
		regexp.MustCompile(`(?is)gmail\.com\s+PIN\s*:?\s*([A-Z]{1,2}[O0-9]{9}[A-Z])`),
		regexp.MustCompile(`(?is)@\w+\.\w+\s+PIN\s*:?\s*([A-Z]{1,2}[O0-9]{9}[A-Z])`),
		regexp.MustCompile(`(?is)email.*?PIN\s*:?\s*([A-Z]{1,2}[O0-9]{9}[A-Z])`),
		regexp.MustCompile(`(?is)PIN\s*:?\s*[A-Z][0-9]{9}[A-Z].*?PIN\s*:?\s*([A-Z]{1,2}[O0-9]{9}[A-Z])`),
	},
}

// buyerNamePatterns and sellerNamePatterns feed the party-detail
// extraction; same ordered first-match-wins policy as the scalar fields.
var buyerNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:WAMBUA|PERSON\sNAME)\s+([A-Z][A-Z\s]+(?:LIMITED|LTD|SOLUTIONS))`),
	regexp.MustCompile(`(?is)\s([A-Z]{2,}(?:\s+[A-Z]+)*\s+(?:LIMITED|LTD|SOLUTIONS))\s+KRAS`),
}

var sellerNamePatterns = []*regexp.Regexp{
	// full personal name on the line after the CU invoice number label
	regexp.MustCompile(`(?is)CU\s+Invoice\s+Number\s*:?\s*\n([A-Z]+\s+[A-Z]+\s+[A-Z]+)`),
	regexp.MustCompile(`(?is)Invoice\s+Number\s*:?\s*\n([A-Z]+(?:\s+[A-Z]+){1,3})\s+[A-Z]+(?:\s+[A-Z]+)*\s+(?:LIMITED|SOLUTIONS)`),
}
