package constants

// Canonical field names produced by the eTIMS extraction pipeline.
// Confidence score maps are keyed by these names.
const (
	FieldInvoiceNumber  = "invoice_number"
	FieldInvoiceAmount  = "invoice_amount"
	FieldInvoiceDate    = "invoice_date"
	FieldDueDate        = "due_date"
	FieldSupplierKRAPIN = "supplier_kra_pin"
	FieldBuyerKRAPIN    = "buyer_kra_pin"
)

// ScoredFields lists the fields that always carry a confidence score,
// in reporting order.
var ScoredFields = []string{
	FieldInvoiceNumber,
	FieldInvoiceAmount,
	FieldInvoiceDate,
	FieldDueDate,
	FieldSupplierKRAPIN,
	FieldBuyerKRAPIN,
}
