// Package reporting summarizes an owner's documents into dashboard figures.
package reporting

import (
	"errors"
	"math"
	"sort"
	"time"

	"invoice_management/internal/domain/entities"
)

const (
	OverdueLimit = 5
	RecentLimit  = 3
)

var ErrAmountOverflow = errors.New("dashboard amount exceeds supported range")

// Input is everything a dashboard is computed from. All slices belong to one owner.
type Input struct {
	Now       time.Time
	Customers []entities.Customer
	Quotes    []entities.Quote
	Invoices  []entities.Invoice
	Payments  []entities.Payment
}

// OverdueInvoice is a SENT or OVERDUE invoice past its due date.
type OverdueInvoice struct {
	Invoice      entities.Invoice
	CustomerName string
}

type Dashboard struct {
	MonthStart time.Time
	MonthEnd   time.Time

	// MonthlySales is the total of invoices issued in the current month.
	MonthlySales int64
	// MonthlyPayments is the sum of RECONCILED payments paid in the current month.
	MonthlyPayments int64
	// TotalUnpaid is what remains open on SENT and OVERDUE invoices.
	TotalUnpaid int64

	CustomerCount int
	StatusCounts  map[entities.InvoiceStatus]int

	// Overdue holds the invoices furthest past due first.
	Overdue []OverdueInvoice

	RecentQuotes   []entities.Quote
	RecentInvoices []entities.Invoice
	RecentPayments []entities.Payment
}

// MonthBounds returns the UTC calendar month containing now as [start, end).
func MonthBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func Summarize(in Input) (Dashboard, error) {
	start, end := MonthBounds(in.Now)
	d := Dashboard{
		MonthStart:    start,
		MonthEnd:      end,
		CustomerCount: len(in.Customers),
		StatusCounts: map[entities.InvoiceStatus]int{
			entities.InvoiceStatusDraft:   0,
			entities.InvoiceStatusSent:    0,
			entities.InvoiceStatusOverdue: 0,
			entities.InvoiceStatusPaid:    0,
		},
	}

	names := make(map[string]string, len(in.Customers))
	for _, c := range in.Customers {
		names[c.ID] = c.Name
	}

	var sales, unpaid sum
	for _, inv := range in.Invoices {
		d.StatusCounts[inv.Status]++
		if inMonth(inv.IssuedAt, start, end) {
			sales.add(inv.Total)
		}
		if inv.Status != entities.InvoiceStatusSent && inv.Status != entities.InvoiceStatusOverdue {
			continue
		}
		if open := inv.Total - inv.PaidAmount; open > 0 {
			unpaid.add(open)
		}
		if !inv.DueDate.IsZero() && inv.DueDate.Before(in.Now) {
			d.Overdue = append(d.Overdue, OverdueInvoice{Invoice: inv, CustomerName: names[inv.CustomerID]})
		}
	}

	var received sum
	for _, p := range in.Payments {
		if p.Status == entities.PaymentStatusReconciled && inMonth(p.PaidAt, start, end) {
			received.add(p.Amount)
		}
	}
	if sales.overflow || unpaid.overflow || received.overflow {
		return Dashboard{}, ErrAmountOverflow
	}
	d.MonthlySales, d.TotalUnpaid, d.MonthlyPayments = sales.v, unpaid.v, received.v

	sort.SliceStable(d.Overdue, func(i, j int) bool {
		return d.Overdue[i].Invoice.DueDate.Before(d.Overdue[j].Invoice.DueDate)
	})
	d.Overdue = limit(d.Overdue, OverdueLimit)

	d.RecentQuotes = newest(in.Quotes, func(q entities.Quote) time.Time { return q.CreatedAt })
	d.RecentInvoices = newest(in.Invoices, func(inv entities.Invoice) time.Time { return inv.CreatedAt })
	d.RecentPayments = newest(in.Payments, func(p entities.Payment) time.Time { return p.PaidAt })
	return d, nil
}

type sum struct {
	v        int64
	overflow bool
}

func (s *sum) add(n int64) {
	if n > 0 && s.v > math.MaxInt64-n {
		s.overflow = true
		return
	}
	s.v += n
}

func inMonth(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// newest returns up to RecentLimit elements ordered by at, latest first.
func newest[T any](items []T, at func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	return limit(out, RecentLimit)
}

func limit[T any](items []T, n int) []T {
	if items == nil {
		return []T{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
