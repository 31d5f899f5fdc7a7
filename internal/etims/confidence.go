package etims

import (
	"unicode"

	"github.com/biasharafund/discounting/constants"
)

// Score assigns a heuristic reliability score per field based purely on
// the format of what was extracted. It is a confidence proxy for
// downstream human review, deliberately decoupled from the recognition
// engine's own confidence signal; exact values are part of the contract.
func Score(f Fields) map[string]float64 {
	scores := make(map[string]float64, len(constants.ScoredFields))

	// invoice number: strong when it has a plausible identifier shape
	switch {
	case f.InvoiceNumber == "":
		scores[constants.FieldInvoiceNumber] = 0.0
	case len(f.InvoiceNumber) >= 5 && len(f.InvoiceNumber) <= 30 && hasAlnum(f.InvoiceNumber):
		scores[constants.FieldInvoiceNumber] = 0.9
	default:
		scores[constants.FieldInvoiceNumber] = 0.6
	}

	// amount: parsing already proved the format
	if f.InvoiceAmount != nil {
		scores[constants.FieldInvoiceAmount] = 0.95
	} else {
		scores[constants.FieldInvoiceAmount] = 0.0
	}

	// dates: normalization already proved the format
	for field, value := range map[string]string{
		constants.FieldInvoiceDate: f.InvoiceDate,
		constants.FieldDueDate:     f.DueDate,
	} {
		if value != "" {
			scores[field] = 0.9
		} else {
			scores[field] = 0.0
		}
	}

	// KRA PINs: full marks only for the valid 11-char alphanumeric shape
	for field, pin := range map[string]string{
		constants.FieldSupplierKRAPIN: f.SupplierKRAPIN,
		constants.FieldBuyerKRAPIN:    f.BuyerKRAPIN,
	} {
		switch {
		case pin == "":
			scores[field] = 0.0
		case ValidateKRAPIN(pin):
			scores[field] = 0.95
		default:
			scores[field] = 0.5
		}
	}

	return scores
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
