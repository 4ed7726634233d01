package usecase

import (
	"context"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/lifecycle"
	"invoice_management/internal/domain/numbering"
	"invoice_management/internal/domain/pricing"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase/interfaces"
)

//go:generate mockgen -source=quote_usecase.go -destination=../adapter/http/handlers/mocks/quote_usecase_mock.go -package=mocks

// IQuoteUseCase exposes the quote lifecycle:
//   - CreateQuote prices the items and allocates a QT number
//   - UpdateQuoteStatus walks DRAFT -> SENT -> ACCEPTED | REJECTED
//   - ConvertQuoteToInvoice turns an accepted quote into a DRAFT invoice, at most once
type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, ownerID string, in QuoteInput) (entities.Quote, error)
	GetQuote(ctx context.Context, ownerID, id string) (entities.Quote, error)
	ListQuotes(ctx context.Context, ownerID string, filter interfaces.QuoteFilter) ([]entities.Quote, error)
	UpdateQuoteStatus(ctx context.Context, ownerID, id string, status entities.QuoteStatus) (entities.Quote, error)
	SendQuote(ctx context.Context, ownerID, id string) (entities.Quote, error)
	AcceptQuote(ctx context.Context, ownerID, id string) (entities.Quote, error)
	RejectQuote(ctx context.Context, ownerID, id string) (entities.Quote, error)
	DeleteQuote(ctx context.Context, ownerID, id string) error
	ConvertQuoteToInvoice(ctx context.Context, ownerID, quoteID string) (entities.Invoice, error)
}

type QuoteUseCase struct {
	engine
	calc    *pricing.Calculator
	alloc   *numbering.Allocator
	dueDays int
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(uow interfaces.IUnitOfWork, calc *pricing.Calculator, alloc *numbering.Allocator, events interfaces.IEventPublisher, dueDays int) *QuoteUseCase {
	return &QuoteUseCase{
		engine:  newEngine(uow, events, logger.WithComponent("quote_usecase")),
		calc:    calc,
		alloc:   alloc,
		dueDays: dueDays,
	}
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, ownerID string, in QuoteInput) (entities.Quote, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Quote{}, err
	}
	in.normalize()
	if err := validateStruct(in); err != nil {
		return entities.Quote{}, err
	}
	items, totals, err := priceItems(u.calc, in.Items, u.newID)
	if err != nil {
		return entities.Quote{}, err
	}

	now := u.now()
	issuedAt := now
	if in.IssuedAt != nil {
		issuedAt = in.IssuedAt.UTC()
	}
	if in.ValidUntil != nil && in.ValidUntil.Before(issuedAt) {
		return entities.Quote{}, invalid("valid until must not be before the issue date")
	}

	var created entities.Quote
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		if err := ensureCustomer(ctx, repos, ownerID, in.CustomerID); err != nil {
			return err
		}
		number, err := allocateNumber(ctx, repos, u.alloc, numbering.KindQuote, ownerID, now)
		if err != nil {
			return err
		}
		q := entities.Quote{
			ID:          u.newID(),
			OwnerID:     ownerID,
			CustomerID:  in.CustomerID,
			QuoteNumber: number,
			Status:      entities.QuoteStatusDraft,
			IssuedAt:    issuedAt,
			ValidUntil:  utcPtr(in.ValidUntil),
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Total:       totals.Total,
			Notes:       in.Notes,
			Items:       items,
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created, err = repos.Quotes.Create(ctx, q)
		return err
	})
	if err != nil {
		u.log.Error().Err(err).Str("owner_id", ownerID).Msg("create quote failed")
		return entities.Quote{}, err
	}
	u.log.Info().Str("owner_id", ownerID).Str("quote_id", created.ID).Str("quote_number", created.QuoteNumber).
		Int64("total", created.Total).Msg("quote created")
	return created, nil
}

func (u *QuoteUseCase) GetQuote(ctx context.Context, ownerID, id string) (entities.Quote, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Quote{}, err
	}
	if id, err = requireID("quote", id); err != nil {
		return entities.Quote{}, err
	}

	var q entities.Quote
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		q, err = loadQuote(ctx, repos, ownerID, id)
		return err
	})
	if err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (u *QuoteUseCase) ListQuotes(ctx context.Context, ownerID string, filter interfaces.QuoteFilter) ([]entities.Quote, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown quote status %q", filter.Status)
	}

	var out []entities.Quote
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		out, err = repos.Quotes.List(ctx, ownerID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *QuoteUseCase) SendQuote(ctx context.Context, ownerID, id string) (entities.Quote, error) {
	return u.UpdateQuoteStatus(ctx, ownerID, id, entities.QuoteStatusSent)
}

func (u *QuoteUseCase) AcceptQuote(ctx context.Context, ownerID, id string) (entities.Quote, error) {
	return u.UpdateQuoteStatus(ctx, ownerID, id, entities.QuoteStatusAccepted)
}

func (u *QuoteUseCase) RejectQuote(ctx context.Context, ownerID, id string) (entities.Quote, error) {
	return u.UpdateQuoteStatus(ctx, ownerID, id, entities.QuoteStatusRejected)
}

func (u *QuoteUseCase) UpdateQuoteStatus(ctx context.Context, ownerID, id string, status entities.QuoteStatus) (entities.Quote, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Quote{}, err
	}
	if id, err = requireID("quote", id); err != nil {
		return entities.Quote{}, err
	}
	if !status.Valid() {
		return entities.Quote{}, invalid("unknown quote status %q", status)
	}

	var (
		updated entities.Quote
		from    entities.QuoteStatus
	)
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		q, err := loadQuote(ctx, repos, ownerID, id)
		if err != nil {
			return err
		}
		if err := lifecycle.QuoteTransition(q.Status, status); err != nil {
			return err
		}
		from = q.Status
		q.Status = status
		q.UpdatedAt = u.now()
		updated, err = repos.Quotes.UpdateStatus(ctx, q, q.Version)
		return err
	})
	if err != nil {
		return entities.Quote{}, err
	}
	u.log.Info().Str("owner_id", ownerID).Str("quote_id", id).Str("from", string(from)).Str("to", string(status)).
		Msg("quote status changed")
	return updated, nil
}

// DeleteQuote removes a quote and its items. A quote that was converted stays, since the
// invoice keeps referring to it.
func (u *QuoteUseCase) DeleteQuote(ctx context.Context, ownerID, id string) error {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return err
	}
	if id, err = requireID("quote", id); err != nil {
		return err
	}

	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		if _, err := loadQuote(ctx, repos, ownerID, id); err != nil {
			return err
		}
		inv, err := repos.Invoices.FindByQuoteID(ctx, id)
		if err != nil {
			return err
		}
		if inv.ID != "" {
			return ErrQuoteAlreadyConverted
		}
		return repos.Quotes.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}
	u.log.Info().Str("owner_id", ownerID).Str("quote_id", id).Msg("quote deleted")
	return nil
}

// ConvertQuoteToInvoice creates a DRAFT invoice carrying the quote's items and totals
// verbatim. Storage uniqueness on the quote reference guarantees a single invoice even
// when two conversions race.
func (u *QuoteUseCase) ConvertQuoteToInvoice(ctx context.Context, ownerID, quoteID string) (entities.Invoice, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if quoteID, err = requireID("quote", quoteID); err != nil {
		return entities.Invoice{}, err
	}

	var created entities.Invoice
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		q, err := loadQuote(ctx, repos, ownerID, quoteID)
		if err != nil {
			return err
		}
		if !lifecycle.CanConvert(q.Status) {
			return ErrQuoteNotAccepted
		}
		existing, err := repos.Invoices.FindByQuoteID(ctx, q.ID)
		if err != nil {
			return err
		}
		if existing.ID != "" {
			return ErrQuoteAlreadyConverted
		}

		now := u.now()
		number, err := allocateNumber(ctx, repos, u.alloc, numbering.KindInvoice, ownerID, now)
		if err != nil {
			return err
		}
		inv := entities.Invoice{
			ID:            u.newID(),
			OwnerID:       ownerID,
			CustomerID:    q.CustomerID,
			QuoteID:       q.ID,
			InvoiceNumber: number,
			Status:        entities.InvoiceStatusDraft,
			IssuedAt:      now,
			DueDate:       now.AddDate(0, 0, u.dueDays),
			Subtotal:      q.Subtotal,
			Tax:           q.Tax,
			Total:         q.Total,
			Notes:         q.Notes,
			Items:         entities.CopyItems(q.Items, u.newID),
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		created, err = repos.Invoices.Create(ctx, inv)
		return err
	})
	if err != nil {
		u.log.Warn().Err(err).Str("owner_id", ownerID).Str("quote_id", quoteID).Msg("convert quote failed")
		return entities.Invoice{}, err
	}

	u.log.Info().Str("owner_id", ownerID).Str("quote_id", quoteID).Str("invoice_id", created.ID).
		Str("invoice_number", created.InvoiceNumber).Msg("quote converted")
	u.publish(ctx, entities.EventQuoteConverted, ownerID, quoteID, map[string]any{
		"invoice_id":     created.ID,
		"invoice_number": created.InvoiceNumber,
	})
	u.publish(ctx, entities.EventInvoiceCreated, ownerID, created.ID, map[string]any{
		"invoice_number": created.InvoiceNumber,
		"quote_id":       quoteID,
		"total":          created.Total,
	})
	return created, nil
}

func loadQuote(ctx context.Context, repos interfaces.Repositories, ownerID, id string) (entities.Quote, error) {
	q, err := repos.Quotes.GetByID(ctx, ownerID, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}
