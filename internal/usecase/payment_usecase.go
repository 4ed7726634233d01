package usecase

import (
	"context"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/lifecycle"
	"invoice_management/internal/domain/reconciliation"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase/interfaces"
)

//go:generate mockgen -source=payment_usecase.go -destination=../adapter/http/handlers/mocks/payment_usecase_mock.go -package=mocks

// IPaymentUseCase records money received against invoices. Every mutation recomputes the
// invoice's paid status from the full payment set in the same unit of work.
type IPaymentUseCase interface {
	CreatePayment(ctx context.Context, ownerID string, in PaymentInput) (entities.Payment, error)
	GetPayment(ctx context.Context, ownerID, id string) (entities.Payment, error)
	ListPayments(ctx context.Context, ownerID string, filter interfaces.PaymentFilter) ([]entities.Payment, error)
	UpdatePayment(ctx context.Context, ownerID, id string, in PaymentUpdate) (entities.Payment, error)
	DeletePayment(ctx context.Context, ownerID, id string) error
	ChargeInvoice(ctx context.Context, ownerID, invoiceID string, in ChargeInput) (entities.Payment, error)
}

// ChargeSettings tunes online charging through the payment gateway.
type ChargeSettings struct {
	// Mock accepts empty or partial gateway payloads; the gateway is expected to be in
	// mock mode as well.
	Mock bool
	// SandboxPayerEmail fills payer.email when the caller sends neither id nor email.
	SandboxPayerEmail string
}

type PaymentUseCase struct {
	engine
	gateway  interfaces.IPaymentGateway
	settings ChargeSettings
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(uow interfaces.IUnitOfWork, gateway interfaces.IPaymentGateway, events interfaces.IEventPublisher, settings ChargeSettings) *PaymentUseCase {
	return &PaymentUseCase{
		engine:   newEngine(uow, events, logger.WithComponent("payment_usecase")),
		gateway:  gateway,
		settings: settings,
	}
}

// reconciled is the outcome of a payment mutation, kept for logging and events.
type reconciled struct {
	invoice entities.Invoice
	from    entities.InvoiceStatus
}

func (r reconciled) statusChanged() bool {
	return r.from != r.invoice.Status
}

func (u *PaymentUseCase) CreatePayment(ctx context.Context, ownerID string, in PaymentInput) (entities.Payment, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Payment{}, err
	}
	in.normalize()
	if err := in.check(); err != nil {
		return entities.Payment{}, err
	}

	now := u.now()
	p := entities.Payment{
		ID:        u.newID(),
		OwnerID:   ownerID,
		InvoiceID: in.InvoiceID,
		Amount:    in.Amount,
		PaidAt:    now,
		Method:    in.Method,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.PaidAt != nil {
		p.PaidAt = in.PaidAt.UTC()
	}

	created, rec, err := u.record(ctx, ownerID, p)
	if err != nil {
		u.log.Error().Err(err).Str("owner_id", ownerID).Str("invoice_id", in.InvoiceID).Msg("create payment failed")
		return entities.Payment{}, err
	}
	u.afterMutation(ctx, entities.EventPaymentRecorded, created, rec)
	return created, nil
}

// record inserts p and reconciles its invoice in one unit of work.
func (u *PaymentUseCase) record(ctx context.Context, ownerID string, p entities.Payment) (entities.Payment, reconciled, error) {
	var (
		created entities.Payment
		rec     reconciled
	)
	err := u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		inv, err := loadInvoice(ctx, repos, ownerID, p.InvoiceID)
		if err != nil {
			return err
		}
		created, err = repos.Payments.Create(ctx, p)
		if err != nil {
			return err
		}
		rec, err = u.reconcile(ctx, repos, inv, func(set []entities.Payment) []entities.Payment {
			return reconciliation.WithPayment(set, created)
		})
		return err
	})
	return created, rec, err
}

func (u *PaymentUseCase) GetPayment(ctx context.Context, ownerID, id string) (entities.Payment, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Payment{}, err
	}
	if id, err = requireID("payment", id); err != nil {
		return entities.Payment{}, err
	}

	var p entities.Payment
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		p, err = loadPayment(ctx, repos, ownerID, id)
		return err
	})
	if err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (u *PaymentUseCase) ListPayments(ctx context.Context, ownerID string, filter interfaces.PaymentFilter) ([]entities.Payment, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalid("unknown payment status %q", filter.Status)
	}

	var out []entities.Payment
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		out, err = repos.Payments.List(ctx, ownerID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *PaymentUseCase) UpdatePayment(ctx context.Context, ownerID, id string, in PaymentUpdate) (entities.Payment, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Payment{}, err
	}
	if id, err = requireID("payment", id); err != nil {
		return entities.Payment{}, err
	}
	if err := in.check(); err != nil {
		return entities.Payment{}, err
	}

	var (
		updated entities.Payment
		rec     reconciled
	)
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		p, err := loadPayment(ctx, repos, ownerID, id)
		if err != nil {
			return err
		}
		inv, err := loadInvoice(ctx, repos, ownerID, p.InvoiceID)
		if err != nil {
			return err
		}
		applyPaymentUpdate(&p, in)
		p.UpdatedAt = u.now()
		updated, err = repos.Payments.Update(ctx, p)
		if err != nil {
			return err
		}
		rec, err = u.reconcile(ctx, repos, inv, func(set []entities.Payment) []entities.Payment {
			return reconciliation.WithPayment(set, updated)
		})
		return err
	})
	if err != nil {
		u.log.Error().Err(err).Str("owner_id", ownerID).Str("payment_id", id).Msg("update payment failed")
		return entities.Payment{}, err
	}
	u.afterMutation(ctx, entities.EventPaymentRecorded, updated, rec)
	return updated, nil
}

func (u *PaymentUseCase) DeletePayment(ctx context.Context, ownerID, id string) error {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return err
	}
	if id, err = requireID("payment", id); err != nil {
		return err
	}

	var (
		deleted entities.Payment
		rec     reconciled
	)
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		p, err := loadPayment(ctx, repos, ownerID, id)
		if err != nil {
			return err
		}
		inv, err := loadInvoice(ctx, repos, ownerID, p.InvoiceID)
		if err != nil {
			return err
		}
		if err := repos.Payments.Delete(ctx, ownerID, id); err != nil {
			return err
		}
		deleted = p
		rec, err = u.reconcile(ctx, repos, inv, func(set []entities.Payment) []entities.Payment {
			return reconciliation.WithoutPayment(set, id)
		})
		return err
	})
	if err != nil {
		u.log.Error().Err(err).Str("owner_id", ownerID).Str("payment_id", id).Msg("delete payment failed")
		return err
	}
	u.afterMutation(ctx, entities.EventPaymentDeleted, deleted, rec)
	return nil
}

// reconcile recomputes inv over its stored payments with the pending mutation applied, and
// persists the derived status and paid amount under the invoice's version.
func (u *PaymentUseCase) reconcile(ctx context.Context, repos interfaces.Repositories, inv entities.Invoice, pending func([]entities.Payment) []entities.Payment) (reconciled, error) {
	payments, err := repos.Payments.ListByInvoiceID(ctx, inv.ID)
	if err != nil {
		return reconciled{}, err
	}
	res, err := reconciliation.Recompute(inv, pending(payments))
	if err != nil {
		return reconciled{}, invalid("%v", err)
	}
	if err := lifecycle.ReconcileTransition(inv.Status, res.Status); err != nil {
		return reconciled{}, err
	}

	from := inv.Status
	inv.Status = res.Status
	inv.PaidAmount = res.Reconciled
	inv.UpdatedAt = u.now()
	saved, err := repos.Invoices.UpdateState(ctx, inv, inv.Version)
	if err != nil {
		return reconciled{}, err
	}
	return reconciled{invoice: saved, from: from}, nil
}

func (u *PaymentUseCase) afterMutation(ctx context.Context, eventType string, p entities.Payment, rec reconciled) {
	u.log.Info().Str("owner_id", p.OwnerID).Str("payment_id", p.ID).Str("invoice_id", p.InvoiceID).
		Str("event", eventType).Int64("paid_amount", rec.invoice.PaidAmount).Str("invoice_status", string(rec.invoice.Status)).
		Msg("payment reconciled")

	u.publish(ctx, eventType, p.OwnerID, p.ID, map[string]any{
		"invoice_id": p.InvoiceID,
		"amount":     p.Amount,
		"status":     string(p.Status),
	})
	if rec.statusChanged() {
		u.publish(ctx, entities.EventInvoiceStatusChanged, p.OwnerID, rec.invoice.ID, map[string]any{
			"from":        string(rec.from),
			"to":          string(rec.invoice.Status),
			"paid_amount": rec.invoice.PaidAmount,
		})
	}
}

func applyPaymentUpdate(p *entities.Payment, in PaymentUpdate) {
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.PaidAt != nil {
		p.PaidAt = in.PaidAt.UTC()
	}
	if in.Method != nil {
		p.Method = *in.Method
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
}

func loadPayment(ctx context.Context, repos interfaces.Repositories, ownerID, id string) (entities.Payment, error) {
	p, err := repos.Payments.GetByID(ctx, ownerID, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}
