package etims

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biasharafund/discounting/constants"
)

const sampleInvoiceText = `TAX INVOICE
Sale From: MWANGI GENERAL SUPPLIES
PIN: P051234567A
CU Invoice Number:
JOHN MWANGI KAMAU
Buyer contact: buyer@gmail.com PIN: AO23456789B
ACME DISTRIBUTORS LIMITED KRASN0012345/89
SCU ID: KRACU0300002367
Date Created: 2025-12-17 21:50:06
Due Date: 2026-01-16
Total Amount: KES 1,234.56
`

func TestParseInvoice_FullDocument(t *testing.T) {
	p := NewParser(nil)

	res := p.ParseInvoice(sampleInvoiceText)

	require.True(t, res.ExtractionSuccess)
	require.Empty(t, res.ExtractionErrors)

	require.Equal(t, "KRACU0300002367", res.InvoiceNumber)
	require.NotNil(t, res.InvoiceAmount)
	require.Equal(t, "1234.56", res.InvoiceAmount.String())
	require.Equal(t, "2025-12-17", res.InvoiceDate)
	require.Equal(t, "2026-01-16", res.DueDate)
	require.Equal(t, "P051234567A", res.SupplierKRAPIN)
	require.Equal(t, "A023456789B", res.BuyerKRAPIN)
	require.Equal(t, "ACME DISTRIBUTORS LIMITED", res.BuyerDetails.Name)
	require.Equal(t, "JOHN MWANGI KAMAU", res.SellerDetails.Name)

	require.Equal(t, 0.9, res.ConfidenceScores[constants.FieldInvoiceNumber])
	require.Equal(t, 0.95, res.ConfidenceScores[constants.FieldInvoiceAmount])
	require.Equal(t, 0.95, res.ConfidenceScores[constants.FieldBuyerKRAPIN])
}

func TestParseInvoice_MissingAmount(t *testing.T) {
	p := NewParser(nil)

	text := strings.ReplaceAll(sampleInvoiceText, "Total Amount: KES 1,234.56", "no amounts here")
	res := p.ParseInvoice(text)

	require.False(t, res.ExtractionSuccess)
	require.Nil(t, res.InvoiceAmount)
	require.Equal(t, "KRACU0300002367", res.InvoiceNumber)
	require.Contains(t, res.ExtractionErrors, "failed to extract core fields: invoice_amount")
	require.Equal(t, 0.0, res.ConfidenceScores[constants.FieldInvoiceAmount])
}

func TestParseInvoice_EmptyOrShortText(t *testing.T) {
	p := NewParser(nil)

	for _, text := range []string{"", "   \n\t  ", "too short"} {
		res := p.ParseInvoice(text)
		require.False(t, res.ExtractionSuccess)
		require.Equal(t, []string{"OCR text is empty or too short"}, res.ExtractionErrors)
		require.Empty(t, res.InvoiceNumber)
	}
}

func TestParseInvoice_GarbageTextNeverPanics(t *testing.T) {
	p := NewParser(nil)

	res := p.ParseInvoice("lorem ipsum dolor sit amet, no invoice markers at all")
	require.False(t, res.ExtractionSuccess)
	require.Contains(t, res.ExtractionErrors,
		"failed to extract core fields: invoice_number, invoice_amount")

	// scores are fully populated even when nothing was extracted
	for _, field := range constants.ScoredFields {
		require.Contains(t, res.ConfidenceScores, field)
		require.Equal(t, 0.0, res.ConfidenceScores[field])
	}
}

func TestExtractField_NoMatchReturnsEmpty(t *testing.T) {
	p := NewParser(nil)

	require.Equal(t, "", p.ExtractField("", constants.FieldInvoiceNumber))
	require.Equal(t, "", p.ExtractField("nothing relevant", constants.FieldInvoiceAmount))
	require.Equal(t, "", p.ExtractField("unknown field name", "no_such_field"))
}

func TestExtractField_PatternPrecedence(t *testing.T) {
	p := NewParser(nil)

	// SCU ID outranks the bare Total-style fallbacks
	text := "Receipt Signature: ABCDEFGHIJ123\nSCU ID: KRACU0011223344"
	require.Equal(t, "KRACU0011223344", p.ExtractField(text, constants.FieldInvoiceNumber))

	// specific amount label wins over the bare Total fallback
	text = "Total: 99.00\nTotal Amount: KES 500.00"
	require.Equal(t, "500.00", p.ExtractField(text, constants.FieldInvoiceAmount))
}

func TestExtractField_BareTotalFallback(t *testing.T) {
	p := NewParser(nil)

	require.Equal(t, "2,500", p.ExtractField("Total: KSH 2,500", constants.FieldInvoiceAmount))
}

func TestParseAmount(t *testing.T) {
	p := NewParser(nil)

	d := p.ParseAmount("1,234.56")
	require.NotNil(t, d)
	require.Equal(t, "1234.56", d.String())

	d = p.ParseAmount("12 345")
	require.NotNil(t, d)
	require.Equal(t, "12345", d.String())

	require.Nil(t, p.ParseAmount(""))
	require.Nil(t, p.ParseAmount("abc"))
	require.Nil(t, p.ParseAmount("12..3"))
}

func TestParseAmount_ExactDecimal(t *testing.T) {
	p := NewParser(nil)

	// must stay exact, not drift through a float
	d := p.ParseAmount("0.1")
	require.NotNil(t, d)
	require.Equal(t, "0.1", d.String())
}

func TestParseDate(t *testing.T) {
	p := NewParser(nil)

	cases := map[string]string{
		"2025-12-17":          "2025-12-17",
		"2025-12-17 21:50:06": "2025-12-17",
		"2025/3/5":            "2025-03-05",
		"17/12/2025":          "2025-12-17",
		"17-12-2025":          "2025-12-17",
		"5/3/25":              "2025-03-05",
		"5-3-25":              "2025-03-05",
		"":                    "",
		"not a date":          "",
		"2025-13-40":          "",
	}
	for in, want := range cases {
		require.Equal(t, want, p.ParseDate(in), "input %q", in)
	}
}

func TestExtractPartyDetails_NoMatch(t *testing.T) {
	p := NewParser(nil)

	require.Equal(t, PartyDetails{}, p.ExtractBuyerDetails("no names here"))
	require.Equal(t, PartyDetails{}, p.ExtractSellerDetails("no names here"))
}
