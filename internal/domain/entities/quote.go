package entities

import "time"

// QuoteStatus represents the lifecycle of a quote (estimate).
//
// Legal edges are owned by the lifecycle package:
//
//	DRAFT -> SENT -> ACCEPTED | REJECTED
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
)

// Valid reports whether s is one of the known quote statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote is a priced offer to a customer.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (owner_id-index): owner_id
//   - items are embedded as an ordered list
//   - quote_number uniqueness is guarded by the uniques table
//
// Subtotal, Tax and Total are derived from Items by the pricing package and are never
// accepted from callers. Version is incremented on every status change.
type Quote struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	CustomerID  string      `json:"customer_id"`
	QuoteNumber string      `json:"quote_number"`
	Status      QuoteStatus `json:"status"`
	IssuedAt    time.Time   `json:"issued_at"`
	ValidUntil  *time.Time  `json:"valid_until,omitempty"`
	Subtotal    int64       `json:"subtotal"`
	Tax         int64       `json:"tax"`
	Total       int64       `json:"total"`
	Notes       string      `json:"notes,omitempty"`
	Items       []LineItem  `json:"items"`
	Version     int64       `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
