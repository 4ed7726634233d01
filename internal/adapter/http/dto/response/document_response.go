package response

import (
	"time"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase"
)

type LineItemResponse struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Amount      int64  `json:"amount"`
}

type QuoteResponse struct {
	ID          string             `json:"id"`
	QuoteNumber string             `json:"quote_number"`
	CustomerID  string             `json:"customer_id"`
	Status      string             `json:"status"`
	IssuedAt    time.Time          `json:"issued_at"`
	ValidUntil  *time.Time         `json:"valid_until,omitempty"`
	Subtotal    int64              `json:"subtotal"`
	Tax         int64              `json:"tax"`
	Total       int64              `json:"total"`
	Notes       string             `json:"notes,omitempty"`
	Items       []LineItemResponse `json:"items"`
	Version     int64              `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type InvoiceResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    string             `json:"customer_id"`
	QuoteID       string             `json:"quote_id,omitempty"`
	Status        string             `json:"status"`
	IssuedAt      time.Time          `json:"issued_at"`
	DueDate       time.Time          `json:"due_date"`
	Subtotal      int64              `json:"subtotal"`
	Tax           int64              `json:"tax"`
	Total         int64              `json:"total"`
	PaidAmount    int64              `json:"paid_amount"`
	Notes         string             `json:"notes,omitempty"`
	Items         []LineItemResponse `json:"items"`
	Version       int64              `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// InvoiceBalanceResponse is the payment screen view of an invoice.
type InvoiceBalanceResponse struct {
	Invoice    InvoiceResponse `json:"invoice"`
	Reconciled int64           `json:"reconciled"`
	Remaining  int64           `json:"remaining"`
}

type OverdueResponse struct {
	Marked  []InvoiceResponse `json:"marked"`
	Skipped int               `json:"skipped"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		CustomerID:  q.CustomerID,
		Status:      string(q.Status),
		IssuedAt:    q.IssuedAt,
		ValidUntil:  q.ValidUntil,
		Subtotal:    q.Subtotal,
		Tax:         q.Tax,
		Total:       q.Total,
		Notes:       q.Notes,
		Items:       fromLineItems(q.Items),
		Version:     q.Version,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func FromQuotes(list []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(list))
	for _, q := range list {
		out = append(out, FromQuote(q))
	}
	return out
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		QuoteID:       inv.QuoteID,
		Status:        string(inv.Status),
		IssuedAt:      inv.IssuedAt,
		DueDate:       inv.DueDate,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		Notes:         inv.Notes,
		Items:         fromLineItems(inv.Items),
		Version:       inv.Version,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func FromInvoices(list []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInvoice(inv))
	}
	return out
}

func FromInvoiceBalance(b usecase.InvoiceBalance) InvoiceBalanceResponse {
	return InvoiceBalanceResponse{
		Invoice:    FromInvoice(b.Invoice),
		Reconciled: b.Reconciled,
		Remaining:  b.Remaining,
	}
}

func FromOverdueResult(r usecase.OverdueResult) OverdueResponse {
	return OverdueResponse{Marked: FromInvoices(r.Marked), Skipped: r.Skipped}
}

func fromLineItems(items []entities.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return out
}
