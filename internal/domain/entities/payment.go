package entities

import "time"

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodCash, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentStatus is the bookkeeping state of a payment.
//
// Only RECONCILED payments count toward an invoice's paid total.
type PaymentStatus string

const (
	PaymentStatusRecorded   PaymentStatus = "RECORDED"
	PaymentStatusReconciled PaymentStatus = "RECONCILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusRecorded, PaymentStatusReconciled, PaymentStatusCancelled:
		return true
	}
	return false
}

// Payment is money received against exactly one invoice.
//
// Storage model (DynamoDB):
//   - PK: invoice_id, SK: id
//   - GSI1 (owner_id-index): owner_id, paid_at
//   - a payment# record in the uniques table locates the invoice of a payment id
//
// ProviderReference keeps the payment gateway id when the payment was charged online.
type Payment struct {
	ID                string        `json:"id"`
	OwnerID           string        `json:"owner_id"`
	InvoiceID         string        `json:"invoice_id"`
	Amount            int64         `json:"amount"`
	PaidAt            time.Time     `json:"paid_at"`
	Method            PaymentMethod `json:"method"`
	Status            PaymentStatus `json:"status"`
	Notes             string        `json:"notes,omitempty"`
	ProviderReference string        `json:"provider_reference,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
