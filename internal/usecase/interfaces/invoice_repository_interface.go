package interfaces

import (
	"context"

	"invoice_management/internal/domain/entities"
)

//go:generate mockgen -source=invoice_repository_interface.go -destination=mocks/invoice_repository_mock.go

// InvoiceFilter narrows invoice listings. Search matches the invoice number or notes.
type InvoiceFilter struct {
	Status entities.InvoiceStatus
	Search string
}

// IInvoiceRepository persists invoices together with their ordered line items.
//
// The store must:
//   - reject a second invoice with the same number (ErrDuplicateNumber)
//   - reject a second invoice referencing the same quote (ErrQuoteAlreadyInvoiced)
//   - apply state changes only when the stored version matches (ErrVersionConflict)
//   - delete the invoice's payments together with the invoice
type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, ownerID, id string) (entities.Invoice, error)
	FindByQuoteID(ctx context.Context, quoteID string) (entities.Invoice, error)
	List(ctx context.Context, ownerID string, filter InvoiceFilter) ([]entities.Invoice, error)
	// UpdateState writes inv.Status, inv.PaidAmount and inv.UpdatedAt if the stored version
	// equals expectedVersion, and returns inv with Version set to expectedVersion+1.
	UpdateState(ctx context.Context, inv entities.Invoice, expectedVersion int64) (entities.Invoice, error)
	Delete(ctx context.Context, ownerID, id string) error
	NumberExists(ctx context.Context, number string) (bool, error)
}
