package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoice_management/internal/domain/numbering"
	"invoice_management/internal/domain/pricing"
	"invoice_management/internal/usecase/interfaces"
	mock_interfaces "invoice_management/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// stores bundles the mocked repositories handed to every unit of work.
type stores struct {
	uow       *mock_interfaces.MockIUnitOfWork
	customers *mock_interfaces.MockICustomerRepository
	quotes    *mock_interfaces.MockIQuoteRepository
	invoices  *mock_interfaces.MockIInvoiceRepository
	payments  *mock_interfaces.MockIPaymentRepository
	sequences *mock_interfaces.MockISequenceRepository
	events    *mock_interfaces.MockIEventPublisher
}

func newStores(t *testing.T) *stores {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &stores{
		uow:       mock_interfaces.NewMockIUnitOfWork(ctrl),
		customers: mock_interfaces.NewMockICustomerRepository(ctrl),
		quotes:    mock_interfaces.NewMockIQuoteRepository(ctrl),
		invoices:  mock_interfaces.NewMockIInvoiceRepository(ctrl),
		payments:  mock_interfaces.NewMockIPaymentRepository(ctrl),
		sequences: mock_interfaces.NewMockISequenceRepository(ctrl),
		events:    mock_interfaces.NewMockIEventPublisher(ctrl),
	}
}

func (s *stores) repos() interfaces.Repositories {
	return interfaces.Repositories{
		Customers: s.customers,
		Quotes:    s.quotes,
		Invoices:  s.invoices,
		Payments:  s.payments,
		Sequences: s.sequences,
	}
}

// expectTx lets the next n units of work run against the mocked repositories.
func (s *stores) expectTx(n int) {
	s.uow.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, interfaces.Repositories) error) error {
			return fn(ctx, s.repos())
		},
	).Times(n)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixEngine(e *engine) {
	e.now = func() time.Time { return fixedNow }
	e.newID = sequentialIDs()
}

func newTestCalculator(t *testing.T) *pricing.Calculator {
	t.Helper()
	calc, err := pricing.NewCalculator(pricing.DefaultTaxRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return calc
}

func newTestQuoteUseCase(t *testing.T, s *stores) *QuoteUseCase {
	uc := NewQuoteUseCase(s.uow, newTestCalculator(t), numbering.NewAllocator(numbering.QuoteScopeGlobal), s.events, 30)
	fixEngine(&uc.engine)
	return uc
}

func newTestInvoiceUseCase(t *testing.T, s *stores) *InvoiceUseCase {
	uc := NewInvoiceUseCase(s.uow, newTestCalculator(t), numbering.NewAllocator(numbering.QuoteScopeGlobal), s.events, 30)
	fixEngine(&uc.engine)
	return uc
}

func newTestPaymentUseCase(s *stores, gateway interfaces.IPaymentGateway, settings ChargeSettings) *PaymentUseCase {
	uc := NewPaymentUseCase(s.uow, gateway, s.events, settings)
	fixEngine(&uc.engine)
	return uc
}

func ptr[T any](v T) *T { return &v }
