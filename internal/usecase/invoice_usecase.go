package usecase

import (
	"context"
	"errors"
	"time"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/lifecycle"
	"invoice_management/internal/domain/numbering"
	"invoice_management/internal/domain/pricing"
	"invoice_management/internal/domain/reconciliation"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase/interfaces"
)

//go:generate mockgen -source=invoice_usecase.go -destination=../adapter/http/handlers/mocks/invoice_usecase_mock.go -package=mocks

// InvoiceBalance is an invoice together with its reconciled and outstanding amounts.
type InvoiceBalance struct {
	Invoice    entities.Invoice
	Reconciled int64
	Remaining  int64
}

// OverdueResult reports a MarkOverdueInvoices run. Skipped counts invoices that changed
// concurrently and were left for the next run.
type OverdueResult struct {
	Marked  []entities.Invoice
	Skipped int
}

// IInvoiceUseCase exposes the invoice lifecycle. PAID is never requested directly; it is
// derived from payments by reconciliation.
type IInvoiceUseCase interface {
	CreateInvoice(ctx context.Context, ownerID string, in InvoiceInput) (entities.Invoice, error)
	GetInvoice(ctx context.Context, ownerID, id string) (entities.Invoice, error)
	ListInvoices(ctx context.Context, ownerID string, filter interfaces.InvoiceFilter) ([]entities.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, ownerID, id string, status entities.InvoiceStatus) (entities.Invoice, error)
	MarkInvoiceSent(ctx context.Context, ownerID, id string) (entities.Invoice, error)
	DeleteInvoice(ctx context.Context, ownerID, id string) error
	GetInvoiceBalance(ctx context.Context, ownerID, id string) (InvoiceBalance, error)
	MarkOverdueInvoices(ctx context.Context, ownerID string, now time.Time) (OverdueResult, error)
}

type InvoiceUseCase struct {
	engine
	calc    *pricing.Calculator
	alloc   *numbering.Allocator
	dueDays int
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(uow interfaces.IUnitOfWork, calc *pricing.Calculator, alloc *numbering.Allocator, events interfaces.IEventPublisher, dueDays int) *InvoiceUseCase {
	return &InvoiceUseCase{
		engine:  newEngine(uow, events, logger.WithComponent("invoice_usecase")),
		calc:    calc,
		alloc:   alloc,
		dueDays: dueDays,
	}
}

func (u *InvoiceUseCase) CreateInvoice(ctx context.Context, ownerID string, in InvoiceInput) (entities.Invoice, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Invoice{}, err
	}
	in.normalize()
	if err := validateStruct(in); err != nil {
		return entities.Invoice{}, err
	}
	items, totals, err := priceItems(u.calc, in.Items, u.newID)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := u.now()
	issuedAt := now
	if in.IssuedAt != nil {
		issuedAt = in.IssuedAt.UTC()
	}
	dueDate := issuedAt.AddDate(0, 0, u.dueDays)
	if in.DueDate != nil {
		dueDate = in.DueDate.UTC()
	}
	if dueDate.Before(issuedAt) {
		return entities.Invoice{}, invalid("due date must not be before the issue date")
	}

	var created entities.Invoice
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		if err := ensureCustomer(ctx, repos, ownerID, in.CustomerID); err != nil {
			return err
		}
		number, err := allocateNumber(ctx, repos, u.alloc, numbering.KindInvoice, ownerID, now)
		if err != nil {
			return err
		}
		inv := entities.Invoice{
			ID:            u.newID(),
			OwnerID:       ownerID,
			CustomerID:    in.CustomerID,
			InvoiceNumber: number,
			Status:        entities.InvoiceStatusDraft,
			IssuedAt:      issuedAt,
			DueDate:       dueDate,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Total:         totals.Total,
			Notes:         in.Notes,
			Items:         items,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		created, err = repos.Invoices.Create(ctx, inv)
		return err
	})
	if err != nil {
		u.log.Error().Err(err).Str("owner_id", ownerID).Msg("create invoice failed")
		return entities.Invoice{}, err
	}

	u.log.Info().Str("owner_id", ownerID).Str("invoice_id", created.ID).Str("invoice_number", created.InvoiceNumber).
		Int64("total", created.Total).Msg("invoice created")
	u.publish(ctx, entities.EventInvoiceCreated, ownerID, created.ID, map[string]any{
		"invoice_number": created.InvoiceNumber,
		"total":          created.Total,
	})
	return created, nil
}

func (u *InvoiceUseCase) GetInvoice(ctx context.Context, ownerID, id string) (entities.Invoice, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if id, err = requireID("invoice", id); err != nil {
		return entities.Invoice{}, err
	}

	var inv entities.Invoice
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		inv, err = loadInvoice(ctx, repos, ownerID, id)
		return err
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (u *InvoiceUseCase) ListInvoices(ctx context.Context, ownerID string, filter interfaces.InvoiceFilter) ([]entities.Invoice, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown invoice status %q", filter.Status)
	}

	var out []entities.Invoice
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		out, err = repos.Invoices.List(ctx, ownerID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *InvoiceUseCase) MarkInvoiceSent(ctx context.Context, ownerID, id string) (entities.Invoice, error) {
	return u.UpdateInvoiceStatus(ctx, ownerID, id, entities.InvoiceStatusSent)
}

func (u *InvoiceUseCase) UpdateInvoiceStatus(ctx context.Context, ownerID, id string, status entities.InvoiceStatus) (entities.Invoice, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if id, err = requireID("invoice", id); err != nil {
		return entities.Invoice{}, err
	}
	if !status.Valid() {
		return entities.Invoice{}, invalid("unknown invoice status %q", status)
	}

	var (
		updated entities.Invoice
		from    entities.InvoiceStatus
	)
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		inv, err := loadInvoice(ctx, repos, ownerID, id)
		if err != nil {
			return err
		}
		if err := lifecycle.InvoiceTransition(inv.Status, status); err != nil {
			return err
		}
		from = inv.Status
		inv.Status = status
		inv.UpdatedAt = u.now()
		updated, err = repos.Invoices.UpdateState(ctx, inv, inv.Version)
		return err
	})
	if err != nil {
		return entities.Invoice{}, err
	}

	u.log.Info().Str("owner_id", ownerID).Str("invoice_id", id).Str("from", string(from)).Str("to", string(status)).
		Msg("invoice status changed")
	u.publish(ctx, entities.EventInvoiceStatusChanged, ownerID, id, map[string]any{
		"from": string(from),
		"to":   string(status),
	})
	return updated, nil
}

// DeleteInvoice removes the invoice with its items and payments.
func (u *InvoiceUseCase) DeleteInvoice(ctx context.Context, ownerID, id string) error {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return err
	}
	if id, err = requireID("invoice", id); err != nil {
		return err
	}

	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		if _, err := loadInvoice(ctx, repos, ownerID, id); err != nil {
			return err
		}
		return repos.Invoices.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}
	u.log.Info().Str("owner_id", ownerID).Str("invoice_id", id).Msg("invoice deleted")
	return nil
}

func (u *InvoiceUseCase) GetInvoiceBalance(ctx context.Context, ownerID, id string) (InvoiceBalance, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return InvoiceBalance{}, err
	}
	if id, err = requireID("invoice", id); err != nil {
		return InvoiceBalance{}, err
	}

	var out InvoiceBalance
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		inv, err := loadInvoice(ctx, repos, ownerID, id)
		if err != nil {
			return err
		}
		payments, err := repos.Payments.ListByInvoiceID(ctx, inv.ID)
		if err != nil {
			return err
		}
		res, err := reconciliation.Recompute(inv, payments)
		if err != nil {
			return invalid("%v", err)
		}
		out = InvoiceBalance{Invoice: inv, Reconciled: res.Reconciled, Remaining: res.Remaining}
		return nil
	})
	if err != nil {
		return InvoiceBalance{}, err
	}
	return out, nil
}

// MarkOverdueInvoices moves every SENT invoice of the owner whose due date is before now to
// OVERDUE. Each invoice is updated in its own unit of work.
func (u *InvoiceUseCase) MarkOverdueInvoices(ctx context.Context, ownerID string, now time.Time) (OverdueResult, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return OverdueResult{}, err
	}
	if now.IsZero() {
		now = u.now()
	}

	var sent []entities.Invoice
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		sent, err = repos.Invoices.List(ctx, ownerID, interfaces.InvoiceFilter{Status: entities.InvoiceStatusSent})
		return err
	})
	if err != nil {
		return OverdueResult{}, err
	}

	var res OverdueResult
	for _, candidate := range sent {
		if !candidate.IsOverdueAt(now) {
			continue
		}
		var (
			marked  entities.Invoice
			changed bool
		)
		err := u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
			inv, err := loadInvoice(ctx, repos, ownerID, candidate.ID)
			if err != nil {
				return err
			}
			// Paid or otherwise moved on since the listing.
			if !inv.IsOverdueAt(now) {
				return nil
			}
			inv.Status = entities.InvoiceStatusOverdue
			inv.UpdatedAt = u.now()
			marked, err = repos.Invoices.UpdateState(ctx, inv, inv.Version)
			changed = err == nil
			return err
		})
		switch {
		case err == nil && !changed:
			res.Skipped++
		case err == nil:
			res.Marked = append(res.Marked, marked)
			u.publish(ctx, entities.EventInvoiceStatusChanged, ownerID, marked.ID, map[string]any{
				"from": string(entities.InvoiceStatusSent),
				"to":   string(entities.InvoiceStatusOverdue),
			})
		case errors.Is(err, ErrConflict), errors.Is(err, ErrNotFound):
			res.Skipped++
		default:
			return res, err
		}
	}

	u.log.Info().Str("owner_id", ownerID).Int("marked", len(res.Marked)).Int("skipped", res.Skipped).
		Msg("overdue invoices marked")
	return res, nil
}

func loadInvoice(ctx context.Context, repos interfaces.Repositories, ownerID, id string) (entities.Invoice, error) {
	inv, err := repos.Invoices.GetByID(ctx, ownerID, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}
