package request

import (
	"strings"
	"time"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase"
)

type PaymentRequest struct {
	InvoiceID string     `json:"invoice_id" binding:"required"`
	Amount    int64      `json:"amount"`
	PaidAt    *time.Time `json:"paid_at"`
	Method    string     `json:"method" binding:"required"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes"`
}

// PaymentPatchRequest changes only the fields present in the body.
type PaymentPatchRequest struct {
	Amount *int64     `json:"amount"`
	PaidAt *time.Time `json:"paid_at"`
	Method *string    `json:"method"`
	Status *string    `json:"status"`
	Notes  *string    `json:"notes"`
}

func (r PaymentRequest) ToInput() usecase.PaymentInput {
	return usecase.PaymentInput{
		InvoiceID: r.InvoiceID,
		Amount:    r.Amount,
		PaidAt:    r.PaidAt,
		Method:    entities.PaymentMethod(normalizeEnum(r.Method)),
		Status:    entities.PaymentStatus(normalizeEnum(r.Status)),
		Notes:     r.Notes,
	}
}

func (r PaymentPatchRequest) ToUpdate() usecase.PaymentUpdate {
	upd := usecase.PaymentUpdate{
		Amount: r.Amount,
		PaidAt: r.PaidAt,
		Notes:  r.Notes,
	}
	if r.Method != nil {
		m := entities.PaymentMethod(normalizeEnum(*r.Method))
		upd.Method = &m
	}
	if r.Status != nil {
		s := entities.PaymentStatus(normalizeEnum(*r.Status))
		upd.Status = &s
	}
	return upd
}

func normalizeEnum(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
