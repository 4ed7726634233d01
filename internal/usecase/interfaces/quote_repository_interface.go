package interfaces

import (
	"context"

	"invoice_management/internal/domain/entities"
)

//go:generate mockgen -source=quote_repository_interface.go -destination=mocks/quote_repository_mock.go

// QuoteFilter narrows quote listings. Search matches the quote number or notes.
type QuoteFilter struct {
	Status entities.QuoteStatus
	Search string
}

// IQuoteRepository persists quotes together with their ordered line items.
//
// The store must:
//   - reject a second quote with the same number (ErrDuplicateNumber)
//   - apply status changes only when the stored version matches (ErrVersionConflict)
type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, ownerID, id string) (entities.Quote, error)
	List(ctx context.Context, ownerID string, filter QuoteFilter) ([]entities.Quote, error)
	// UpdateStatus writes q.Status and q.UpdatedAt if the stored version equals
	// expectedVersion, and returns q with Version set to expectedVersion+1.
	UpdateStatus(ctx context.Context, q entities.Quote, expectedVersion int64) (entities.Quote, error)
	Delete(ctx context.Context, ownerID, id string) error
	NumberExists(ctx context.Context, number string) (bool, error)
}
