package constants

// InvoiceStatus is the canonical lifecycle status for a discounted invoice.
type InvoiceStatus string

// Stable values (persisted as these exact strings by the invoice store).
const (
	InvoicePending   InvoiceStatus = "pending"   // awaiting approval
	InvoiceApproved  InvoiceStatus = "approved"  // approved for funding
	InvoiceFunded    InvoiceStatus = "funded"    // advance paid to supplier
	InvoiceSettled   InvoiceStatus = "settled"   // buyer paid financier
	InvoiceCompleted InvoiceStatus = "completed" // retention released
	InvoiceRejected  InvoiceStatus = "rejected"
	InvoiceDefaulted InvoiceStatus = "defaulted"
)
