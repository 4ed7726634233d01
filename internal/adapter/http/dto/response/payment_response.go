package response

import (
	"time"

	"invoice_management/internal/domain/entities"
)

type PaymentResponse struct {
	ID                string    `json:"id"`
	InvoiceID         string    `json:"invoice_id"`
	Amount            int64     `json:"amount"`
	PaidAt            time.Time `json:"paid_at"`
	Method            string    `json:"method"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes,omitempty"`
	ProviderReference string    `json:"provider_reference,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		InvoiceID:         p.InvoiceID,
		Amount:            p.Amount,
		PaidAt:            p.PaidAt,
		Method:            string(p.Method),
		Status:            string(p.Status),
		Notes:             p.Notes,
		ProviderReference: p.ProviderReference,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func FromPayments(list []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromPayment(p))
	}
	return out
}
