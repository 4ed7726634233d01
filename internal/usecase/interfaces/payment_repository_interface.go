package interfaces

import (
	"context"

	"invoice_management/internal/domain/entities"
)

//go:generate mockgen -source=payment_repository_interface.go -destination=mocks/payment_repository_mock.go

// PaymentFilter narrows payment listings. Search matches the number of the paid invoice or
// the name of its customer.
type PaymentFilter struct {
	Status    entities.PaymentStatus
	InvoiceID string
	Search    string
}

// IPaymentRepository persists payments.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, ownerID, id string) (entities.Payment, error)
	// ListByInvoiceID returns every payment of the invoice, whatever its status.
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.Payment, error)
	List(ctx context.Context, ownerID string, filter PaymentFilter) ([]entities.Payment, error)
	Update(ctx context.Context, p entities.Payment) (entities.Payment, error)
	Delete(ctx context.Context, ownerID, id string) error
}
