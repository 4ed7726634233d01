package entities

import "time"

// Domain event types published after a successful commit.
const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventQuoteConverted       = "quote.converted"
	EventPaymentRecorded      = "payment.recorded"
	EventPaymentDeleted       = "payment.deleted"
)

// DomainEvent is the envelope handed to the event publisher.
//
// AggregateID is used as the partition key so events of one document stay ordered.
type DomainEvent struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	OwnerID     string         `json:"owner_id"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Data        map[string]any `json:"data,omitempty"`
}
