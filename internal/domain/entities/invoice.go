package entities

import "time"

// InvoiceStatus represents the lifecycle of an invoice.
//
//	DRAFT -> SENT -> OVERDUE
//	DRAFT | SENT | OVERDUE -> PAID  (reconciliation only)
//	PAID -> SENT                    (reconciliation only)
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"
	InvoiceStatusSent    InvoiceStatus = "SENT"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Valid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusOverdue, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is a bill issued to a customer, either directly or converted from an accepted quote.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (owner_id-index): owner_id
//   - items are embedded as an ordered list
//   - invoice_number and quote_id uniqueness are guarded by the uniques table
//
// PaidAmount caches the reconciled sum computed at the last payment mutation. It is
// informational only: reconciliation always re-sums the payments.
type Invoice struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"owner_id"`
	CustomerID    string        `json:"customer_id"`
	QuoteID       string        `json:"quote_id,omitempty"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        InvoiceStatus `json:"status"`
	IssuedAt      time.Time     `json:"issued_at"`
	DueDate       time.Time     `json:"due_date"`
	Subtotal      int64         `json:"subtotal"`
	Tax           int64         `json:"tax"`
	Total         int64         `json:"total"`
	PaidAmount    int64         `json:"paid_amount"`
	Notes         string        `json:"notes,omitempty"`
	Items         []LineItem    `json:"items"`
	Version       int64         `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsOverdueAt reports whether a SENT invoice has passed its due date at now.
func (i Invoice) IsOverdueAt(now time.Time) bool {
	return i.Status == InvoiceStatusSent && !i.DueDate.IsZero() && i.DueDate.Before(now)
}
