package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/biasharafund/discounting/constants"
)

// Draft is an invoice record as assembled from user input and OCR output,
// before the surrounding platform persists it. New drafts enter the
// funding workflow as pending.
type Draft struct {
	ID                uuid.UUID               `json:"id"`
	InvoiceNumber     string                  `json:"invoice_number,omitempty"`
	InvoiceAmount     *decimal.Decimal        `json:"invoice_amount,omitempty"`
	InvoiceDate       string                  `json:"invoice_date,omitempty"`
	DueDate           string                  `json:"due_date,omitempty"`
	SupplierKRAPIN    string                  `json:"supplier_kra_pin,omitempty"`
	BuyerKRAPIN       string                  `json:"buyer_kra_pin,omitempty"`
	BuyerName         string                  `json:"buyer_name,omitempty"`
	SellerName        string                  `json:"seller_name,omitempty"`
	Status            constants.InvoiceStatus `json:"status"`
	ExtractionSuccess bool                    `json:"extraction_success"`
	SubmittedAt       time.Time               `json:"submitted_at"`
}

// Store persists invoice drafts. The concrete store (and its schema)
// belongs to the surrounding platform; this core only depends on the
// interface.
type Store interface {
	SaveDraft(ctx context.Context, d Draft) error
}
