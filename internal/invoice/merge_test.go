package invoice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/biasharafund/discounting/constants"
	"github.com/biasharafund/discounting/internal/etims"
)

func ocrResult() etims.Result {
	amt := decimal.RequireFromString("1234.56")
	return etims.Result{
		Fields: etims.Fields{
			InvoiceNumber:  "KRACU0300002367",
			InvoiceAmount:  &amt,
			InvoiceDate:    "2025-12-17",
			DueDate:        "2026-01-16",
			SupplierKRAPIN: "P051234567A",
			BuyerKRAPIN:    "A023456789B",
			BuyerDetails:   etims.PartyDetails{Name: "ACME DISTRIBUTORS LIMITED"},
			SellerDetails:  etims.PartyDetails{Name: "JOHN MWANGI KAMAU"},
		},
		ExtractionSuccess: true,
	}
}

func TestMerge_OCRBackfillsEverything(t *testing.T) {
	d := Merge(UserFields{}, ocrResult(), nil)

	require.NotEqual(t, uuid.Nil, d.ID)
	require.Equal(t, constants.InvoicePending, d.Status)
	require.True(t, d.ExtractionSuccess)
	require.False(t, d.SubmittedAt.IsZero())

	require.Equal(t, "KRACU0300002367", d.InvoiceNumber)
	require.NotNil(t, d.InvoiceAmount)
	require.Equal(t, "1234.56", d.InvoiceAmount.String())
	require.Equal(t, "2025-12-17", d.InvoiceDate)
	require.Equal(t, "2026-01-16", d.DueDate)
	require.Equal(t, "P051234567A", d.SupplierKRAPIN)
	require.Equal(t, "A023456789B", d.BuyerKRAPIN)
	require.Equal(t, "ACME DISTRIBUTORS LIMITED", d.BuyerName)
	require.Equal(t, "JOHN MWANGI KAMAU", d.SellerName)
}

func TestMerge_UserValuesWin(t *testing.T) {
	user := UserFields{
		InvoiceNumber: "INV-2026-001",
		InvoiceAmount: "9999.99",
		DueDate:       "2026-02-28",
		BuyerName:     "WANJIKU HARDWARE LTD",
	}

	d := Merge(user, ocrResult(), nil)

	require.Equal(t, "INV-2026-001", d.InvoiceNumber)
	require.NotNil(t, d.InvoiceAmount)
	require.Equal(t, "9999.99", d.InvoiceAmount.String())
	require.Equal(t, "2026-02-28", d.DueDate)
	require.Equal(t, "WANJIKU HARDWARE LTD", d.BuyerName)

	// everything else backfilled from OCR
	require.Equal(t, "2025-12-17", d.InvoiceDate)
	require.Equal(t, "P051234567A", d.SupplierKRAPIN)
	require.Equal(t, "JOHN MWANGI KAMAU", d.SellerName)
}

func TestMerge_UnparseableUserAmountFallsBackToOCR(t *testing.T) {
	d := Merge(UserFields{InvoiceAmount: "not a number"}, ocrResult(), nil)

	require.NotNil(t, d.InvoiceAmount)
	require.Equal(t, "1234.56", d.InvoiceAmount.String())
}

func TestMerge_NothingExtractedNothingProvided(t *testing.T) {
	d := Merge(UserFields{}, etims.Result{}, nil)

	require.Empty(t, d.InvoiceNumber)
	require.Nil(t, d.InvoiceAmount)
	require.False(t, d.ExtractionSuccess)
	require.Equal(t, constants.InvoicePending, d.Status)
}
