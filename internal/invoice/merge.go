package invoice

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/biasharafund/discounting/constants"
	"github.com/biasharafund/discounting/internal/etims"
)

// UserFields is the user-supplied portion of a create-with-OCR-assist
// request. Everything is optional; OCR output backfills whatever the
// user leaves blank.
type UserFields struct {
	InvoiceNumber  string `json:"invoice_number,omitempty"`
	InvoiceAmount  string `json:"invoice_amount,omitempty"`
	InvoiceDate    string `json:"invoice_date,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
	SupplierKRAPIN string `json:"supplier_kra_pin,omitempty"`
	BuyerKRAPIN    string `json:"buyer_kra_pin,omitempty"`
	BuyerName      string `json:"buyer_name,omitempty"`
	SellerName     string `json:"seller_name,omitempty"`
}

// Merge combines user-supplied fields with OCR extraction output under
// the fixed rule that a user-provided non-empty value always wins, field
// by field. The OCR-output keys map onto the draft's field names
// one-to-one, with the party records contributing their name only.
func Merge(user UserFields, ocr etims.Result, logger *slog.Logger) Draft {
	if logger == nil {
		logger = slog.Default()
	}

	d := Draft{
		ID:                uuid.New(),
		Status:            constants.InvoicePending,
		ExtractionSuccess: ocr.ExtractionSuccess,
		SubmittedAt:       time.Now().UTC(),
	}

	d.InvoiceNumber = pick(user.InvoiceNumber, ocr.InvoiceNumber)
	d.InvoiceDate = pick(user.InvoiceDate, ocr.InvoiceDate)
	d.DueDate = pick(user.DueDate, ocr.DueDate)
	d.SupplierKRAPIN = pick(user.SupplierKRAPIN, ocr.SupplierKRAPIN)
	d.BuyerKRAPIN = pick(user.BuyerKRAPIN, ocr.BuyerKRAPIN)
	d.BuyerName = pick(user.BuyerName, ocr.BuyerDetails.Name)
	d.SellerName = pick(user.SellerName, ocr.SellerDetails.Name)

	if user.InvoiceAmount != "" {
		if amt, err := decimal.NewFromString(user.InvoiceAmount); err == nil {
			d.InvoiceAmount = &amt
		} else {
			// schema validation should have rejected this; fall back to OCR
			logger.Warn("user amount unparseable, using OCR value", "value", user.InvoiceAmount, "error", err)
			d.InvoiceAmount = ocr.InvoiceAmount
		}
	} else {
		d.InvoiceAmount = ocr.InvoiceAmount
	}

	return d
}

func pick(user, ocr string) string {
	if user != "" {
		return user
	}
	return ocr
}
