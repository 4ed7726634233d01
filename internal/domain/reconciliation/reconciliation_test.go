package reconciliation

import (
	"errors"
	"math"
	"testing"

	"invoice_management/internal/domain/entities"
)

func payment(id string, amount int64, status entities.PaymentStatus) entities.Payment {
	return entities.Payment{ID: id, InvoiceID: "inv-1", Amount: amount, Status: status}
}

func TestRecompute_PartialThenFullThenReduced(t *testing.T) {
	inv := entities.Invoice{ID: "inv-1", Total: 110000, Status: entities.InvoiceStatusSent}

	payments := []entities.Payment{payment("p1", 60000, entities.PaymentStatusReconciled)}
	res, err := Recompute(inv, payments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != entities.InvoiceStatusSent || res.Reconciled != 60000 || res.Remaining != 50000 {
		t.Fatalf("unexpected result after first payment: %+v", res)
	}
	inv.PaidAmount = res.Reconciled

	payments = WithPayment(payments, payment("p2", 50000, entities.PaymentStatusReconciled))
	res, _ = Recompute(inv, payments)
	if res.Status != entities.InvoiceStatusPaid || res.Remaining != 0 || !res.Changed {
		t.Fatalf("expected PAID after second payment, got %+v", res)
	}
	inv.Status, inv.PaidAmount = res.Status, res.Reconciled

	payments = WithPayment(payments, payment("p2", 50000, entities.PaymentStatusRecorded))
	res, _ = Recompute(inv, payments)
	if res.Status != entities.InvoiceStatusSent || res.Reconciled != 60000 {
		t.Fatalf("expected revert to SENT, got %+v", res)
	}
}

func TestRecompute_IgnoresNonReconciledAndForeignPayments(t *testing.T) {
	inv := entities.Invoice{ID: "inv-1", Total: 1000, Status: entities.InvoiceStatusOverdue}
	payments := []entities.Payment{
		payment("p1", 1000, entities.PaymentStatusRecorded),
		payment("p2", 1000, entities.PaymentStatusCancelled),
		{ID: "p3", InvoiceID: "inv-2", Amount: 1000, Status: entities.PaymentStatusReconciled},
	}
	res, err := Recompute(inv, payments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != entities.InvoiceStatusOverdue || res.Changed {
		t.Fatalf("expected unchanged OVERDUE, got %+v", res)
	}
}

func TestRecompute_OverpaymentIsPaid(t *testing.T) {
	inv := entities.Invoice{ID: "inv-1", Total: 1000, Status: entities.InvoiceStatusDraft}
	res, _ := Recompute(inv, []entities.Payment{payment("p1", 1500, entities.PaymentStatusReconciled)})
	if res.Status != entities.InvoiceStatusPaid || res.Remaining != 0 {
		t.Fatalf("expected PAID with nothing remaining, got %+v", res)
	}
}

func TestRecompute_DeleteUsesRemainingSet(t *testing.T) {
	inv := entities.Invoice{ID: "inv-1", Total: 100, Status: entities.InvoiceStatusPaid, PaidAmount: 100}
	payments := []entities.Payment{
		payment("p1", 40, entities.PaymentStatusReconciled),
		payment("p2", 60, entities.PaymentStatusReconciled),
	}
	res, _ := Recompute(inv, WithoutPayment(payments, "p2"))
	if res.Status != entities.InvoiceStatusSent || res.Reconciled != 40 {
		t.Fatalf("expected SENT with 40 reconciled, got %+v", res)
	}
}

func TestReconciledTotal_Overflow(t *testing.T) {
	payments := []entities.Payment{
		payment("p1", math.MaxInt64, entities.PaymentStatusReconciled),
		payment("p2", 1, entities.PaymentStatusReconciled),
	}
	if _, err := ReconciledTotal("inv-1", payments); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
}
