package request

import (
	"time"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase"
)

type LineItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// QuoteRequest creates a quote. Totals are always computed server side.
type QuoteRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	IssuedAt   *time.Time        `json:"issued_at"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      string            `json:"notes"`
	Items      []LineItemRequest `json:"items" binding:"required"`
}

type InvoiceRequest struct {
	CustomerID string            `json:"customer_id" binding:"required"`
	IssuedAt   *time.Time        `json:"issued_at"`
	DueDate    *time.Time        `json:"due_date"`
	Notes      string            `json:"notes"`
	Items      []LineItemRequest `json:"items" binding:"required"`
}

// StatusRequest asks for a lifecycle transition of a quote or invoice.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OverdueRequest struct {
	AsOf *time.Time `json:"as_of"`
}

func (r QuoteRequest) ToInput() usecase.QuoteInput {
	return usecase.QuoteInput{
		CustomerID: r.CustomerID,
		IssuedAt:   r.IssuedAt,
		ValidUntil: r.ValidUntil,
		Notes:      r.Notes,
		Items:      toLineItemInputs(r.Items),
	}
}

func (r InvoiceRequest) ToInput() usecase.InvoiceInput {
	return usecase.InvoiceInput{
		CustomerID: r.CustomerID,
		IssuedAt:   r.IssuedAt,
		DueDate:    r.DueDate,
		Notes:      r.Notes,
		Items:      toLineItemInputs(r.Items),
	}
}

func (r StatusRequest) QuoteStatus() entities.QuoteStatus {
	return entities.QuoteStatus(normalizeEnum(r.Status))
}

func (r StatusRequest) InvoiceStatus() entities.InvoiceStatus {
	return entities.InvoiceStatus(normalizeEnum(r.Status))
}

// ResolveAsOf returns the reference instant for overdue detection, defaulting to now.
func (r OverdueRequest) ResolveAsOf(now time.Time) time.Time {
	if r.AsOf != nil && !r.AsOf.IsZero() {
		return r.AsOf.UTC()
	}
	return now.UTC()
}

func toLineItemInputs(items []LineItemRequest) []usecase.LineItemInput {
	out := make([]usecase.LineItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, usecase.LineItemInput{
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out
}
