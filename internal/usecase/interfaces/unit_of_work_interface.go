package interfaces

import "context"

//go:generate mockgen -source=unit_of_work_interface.go -destination=mocks/unit_of_work_mock.go

// Repositories is the set of stores bound to one unit of work.
type Repositories struct {
	Customers ICustomerRepository
	Quotes    IQuoteRepository
	Invoices  IInvoiceRepository
	Payments  IPaymentRepository
	Sequences ISequenceRepository
}

// IUnitOfWork runs fn against repositories that share one transaction. Writes made through
// repos are committed only if fn returns nil; otherwise nothing is persisted.
type IUnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
