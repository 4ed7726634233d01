package lifecycle

import (
	"errors"
	"testing"

	"invoice_management/internal/domain/entities"
)

func TestQuoteTransition(t *testing.T) {
	cases := []struct {
		from, to entities.QuoteStatus
		ok       bool
	}{
		{entities.QuoteStatusDraft, entities.QuoteStatusSent, true},
		{entities.QuoteStatusSent, entities.QuoteStatusAccepted, true},
		{entities.QuoteStatusSent, entities.QuoteStatusRejected, true},
		{entities.QuoteStatusDraft, entities.QuoteStatusAccepted, false},
		{entities.QuoteStatusAccepted, entities.QuoteStatusDraft, false},
		{entities.QuoteStatusRejected, entities.QuoteStatusSent, false},
		{entities.QuoteStatusSent, entities.QuoteStatusSent, false},
	}
	for _, c := range cases {
		t.Run(string(c.from)+"->"+string(c.to), func(t *testing.T) {
			err := QuoteTransition(c.from, c.to)
			if c.ok && err != nil {
				t.Fatalf("expected edge to be allowed, got %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestInvoiceTransition_UserCannotSetPaid(t *testing.T) {
	for _, from := range []entities.InvoiceStatus{
		entities.InvoiceStatusDraft, entities.InvoiceStatusSent, entities.InvoiceStatusOverdue,
	} {
		if err := InvoiceTransition(from, entities.InvoiceStatusPaid); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected %s->PAID to be rejected, got %v", from, err)
		}
	}
	if err := InvoiceTransition(entities.InvoiceStatusDraft, entities.InvoiceStatusSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := InvoiceTransition(entities.InvoiceStatusSent, entities.InvoiceStatusOverdue); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := InvoiceTransition(entities.InvoiceStatusPaid, entities.InvoiceStatusSent); err == nil {
		t.Fatalf("expected PAID->SENT to be reserved for reconciliation")
	}
}

func TestReconcileTransition(t *testing.T) {
	if err := ReconcileTransition(entities.InvoiceStatusOverdue, entities.InvoiceStatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ReconcileTransition(entities.InvoiceStatusPaid, entities.InvoiceStatusSent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ReconcileTransition(entities.InvoiceStatusPaid, entities.InvoiceStatusDraft); err == nil {
		t.Fatalf("expected PAID->DRAFT to be rejected")
	}
	var te *TransitionError
	if err := ReconcileTransition(entities.InvoiceStatusSent, entities.InvoiceStatusOverdue); !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
}

func TestCanConvert(t *testing.T) {
	if !CanConvert(entities.QuoteStatusAccepted) {
		t.Fatalf("accepted quote should convert")
	}
	if CanConvert(entities.QuoteStatusSent) {
		t.Fatalf("sent quote should not convert")
	}
}
