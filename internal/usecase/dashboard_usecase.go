package usecase

import (
	"context"
	"errors"
	"time"

	"invoice_management/internal/domain/reporting"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase/interfaces"
)

//go:generate mockgen -source=dashboard_usecase.go -destination=../adapter/http/handlers/mocks/dashboard_usecase_mock.go -package=mocks

// IDashboardUseCase reports an owner's monthly figures, open balances, overdue invoices
// and latest activity.
type IDashboardUseCase interface {
	GetDashboard(ctx context.Context, ownerID string, now time.Time) (reporting.Dashboard, error)
}

type DashboardUseCase struct {
	engine
}

var _ IDashboardUseCase = (*DashboardUseCase)(nil)

func NewDashboardUseCase(uow interfaces.IUnitOfWork) *DashboardUseCase {
	return &DashboardUseCase{engine: newEngine(uow, nil, logger.WithComponent("dashboard_usecase"))}
}

// GetDashboard reads every record of the owner in one unit of work, so the figures are
// computed from a single snapshot. A zero now means the current time.
func (u *DashboardUseCase) GetDashboard(ctx context.Context, ownerID string, now time.Time) (reporting.Dashboard, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return reporting.Dashboard{}, err
	}
	if now.IsZero() {
		now = u.now()
	}

	in := reporting.Input{Now: now.UTC()}
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		if in.Customers, err = repos.Customers.List(ctx, ownerID, interfaces.CustomerFilter{}); err != nil {
			return err
		}
		if in.Quotes, err = repos.Quotes.List(ctx, ownerID, interfaces.QuoteFilter{}); err != nil {
			return err
		}
		if in.Invoices, err = repos.Invoices.List(ctx, ownerID, interfaces.InvoiceFilter{}); err != nil {
			return err
		}
		in.Payments, err = repos.Payments.List(ctx, ownerID, interfaces.PaymentFilter{})
		return err
	})
	if err != nil {
		return reporting.Dashboard{}, err
	}

	d, err := reporting.Summarize(in)
	if errors.Is(err, reporting.ErrAmountOverflow) {
		return reporting.Dashboard{}, invalid("%v", err)
	}
	if err != nil {
		return reporting.Dashboard{}, err
	}
	u.log.Debug().Str("owner_id", ownerID).Int("invoices", len(in.Invoices)).Msg("dashboard computed")
	return d, nil
}
