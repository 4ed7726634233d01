package reporting

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"invoice_management/internal/domain/entities"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func invoice(id string, status entities.InvoiceStatus, total, paid int64, issued, due time.Time) entities.Invoice {
	return entities.Invoice{
		ID: id, CustomerID: "cust-1", Status: status, Total: total, PaidAmount: paid,
		IssuedAt: issued, DueDate: due, CreatedAt: issued,
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC))
	if !start.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected bounds: %v - %v", start, end)
	}
}

func TestSummarize(t *testing.T) {
	lastMonth := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	in := Input{
		Now:       now,
		Customers: []entities.Customer{{ID: "cust-1", Name: "Acme"}, {ID: "cust-2", Name: "Globex"}},
		Invoices: []entities.Invoice{
			invoice("inv-1", entities.InvoiceStatusPaid, 110000, 110000, now.AddDate(0, 0, -10), now.AddDate(0, 0, 20)),
			invoice("inv-2", entities.InvoiceStatusSent, 55000, 5000, now.AddDate(0, 0, -3), now.AddDate(0, 0, 27)),
			invoice("inv-3", entities.InvoiceStatusOverdue, 20000, 0, lastMonth, now.AddDate(0, 0, -2)),
			invoice("inv-4", entities.InvoiceStatusSent, 30000, 0, lastMonth, now.AddDate(0, 0, -5)),
			invoice("inv-5", entities.InvoiceStatusDraft, 99000, 0, now.AddDate(0, 0, -1), now.AddDate(0, 0, 29)),
		},
		Payments: []entities.Payment{
			{ID: "p1", Amount: 110000, Status: entities.PaymentStatusReconciled, PaidAt: now.AddDate(0, 0, -4)},
			{ID: "p2", Amount: 5000, Status: entities.PaymentStatusReconciled, PaidAt: lastMonth},
			{ID: "p3", Amount: 7000, Status: entities.PaymentStatusRecorded, PaidAt: now.AddDate(0, 0, -1)},
		},
	}

	d, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.MonthlySales != 110000+55000+99000 {
		t.Fatalf("expected sales of invoices issued this month, got %d", d.MonthlySales)
	}
	if d.MonthlyPayments != 110000 {
		t.Fatalf("expected only this month's reconciled payments, got %d", d.MonthlyPayments)
	}
	if d.TotalUnpaid != 50000+20000+30000 {
		t.Fatalf("expected open amount of SENT and OVERDUE invoices, got %d", d.TotalUnpaid)
	}
	if d.CustomerCount != 2 {
		t.Fatalf("expected 2 customers, got %d", d.CustomerCount)
	}
	if d.StatusCounts[entities.InvoiceStatusSent] != 2 || d.StatusCounts[entities.InvoiceStatusDraft] != 1 ||
		d.StatusCounts[entities.InvoiceStatusOverdue] != 1 || d.StatusCounts[entities.InvoiceStatusPaid] != 1 {
		t.Fatalf("unexpected status counts: %v", d.StatusCounts)
	}
	if len(d.Overdue) != 2 || d.Overdue[0].Invoice.ID != "inv-4" || d.Overdue[1].Invoice.ID != "inv-3" {
		t.Fatalf("expected overdue invoices oldest due first, got %+v", d.Overdue)
	}
	if d.Overdue[0].CustomerName != "Acme" {
		t.Fatalf("expected customer name, got %q", d.Overdue[0].CustomerName)
	}
	if len(d.RecentInvoices) != 3 || d.RecentInvoices[0].ID != "inv-5" {
		t.Fatalf("expected the 3 newest invoices, got %+v", d.RecentInvoices)
	}
	if len(d.RecentPayments) != 3 || d.RecentPayments[0].ID != "p3" {
		t.Fatalf("expected payments newest first, got %+v", d.RecentPayments)
	}
	if d.RecentQuotes == nil || len(d.RecentQuotes) != 0 {
		t.Fatalf("expected an empty quote list, got %v", d.RecentQuotes)
	}
}

func TestSummarize_LimitsOverdueList(t *testing.T) {
	var invoices []entities.Invoice
	for i := 0; i < 8; i++ {
		invoices = append(invoices, invoice(fmt.Sprintf("inv-%d", i), entities.InvoiceStatusSent, 1000, 0,
			now.AddDate(0, -2, 0), now.AddDate(0, 0, -(i+1))))
	}

	d, err := Summarize(Input{Now: now, Invoices: invoices})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Overdue) != OverdueLimit || d.Overdue[0].Invoice.ID != "inv-7" {
		t.Fatalf("expected the %d most overdue invoices, got %+v", OverdueLimit, d.Overdue)
	}
}

func TestSummarize_Overflow(t *testing.T) {
	_, err := Summarize(Input{Now: now, Invoices: []entities.Invoice{
		invoice("a", entities.InvoiceStatusDraft, math.MaxInt64, 0, now, now),
		invoice("b", entities.InvoiceStatusDraft, 1, 0, now, now),
	}})
	if !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
}
