package interfaces

import (
	"context"

	"invoice_management/internal/domain/entities"
)

//go:generate mockgen -source=customer_repository_interface.go -destination=mocks/customer_repository_mock.go

// CustomerFilter narrows customer listings. Search matches name, email or phone, case-insensitively.
type CustomerFilter struct {
	Search string
}

// ICustomerRepository persists customers. Lookups are scoped by owner and return a zero
// value when the customer does not exist or belongs to someone else.
type ICustomerRepository interface {
	Create(ctx context.Context, c entities.Customer) (entities.Customer, error)
	GetByID(ctx context.Context, ownerID, id string) (entities.Customer, error)
	List(ctx context.Context, ownerID string, filter CustomerFilter) ([]entities.Customer, error)
	Update(ctx context.Context, c entities.Customer) (entities.Customer, error)
	// Delete returns ErrReferenced when quotes or invoices still point at the customer.
	Delete(ctx context.Context, ownerID, id string) error
}
