// Package reconciliation derives an invoice's paid status from its payments.
//
// The result is always computed from the full payment set; the cached paid amount on the
// invoice is never incremented or decremented in place.
package reconciliation

import (
	"errors"
	"math"

	"invoice_management/internal/domain/entities"
)

var ErrAmountOverflow = errors.New("reconciled amount exceeds supported range")

// Result is the outcome of recomputing one invoice.
type Result struct {
	Reconciled int64
	Remaining  int64
	Status     entities.InvoiceStatus
	Changed    bool
}

// ReconciledTotal sums the RECONCILED payments that belong to invoiceID.
func ReconciledTotal(invoiceID string, payments []entities.Payment) (int64, error) {
	var sum int64
	for _, p := range payments {
		if p.InvoiceID != invoiceID || p.Status != entities.PaymentStatusReconciled {
			continue
		}
		if p.Amount > 0 && sum > math.MaxInt64-p.Amount {
			return 0, ErrAmountOverflow
		}
		sum += p.Amount
	}
	return sum, nil
}

// Recompute applies the paid rule to inv:
//
//	reconciled >= total        -> PAID
//	reconciled < total && PAID -> SENT
//	otherwise                  -> unchanged
func Recompute(inv entities.Invoice, payments []entities.Payment) (Result, error) {
	reconciled, err := ReconciledTotal(inv.ID, payments)
	if err != nil {
		return Result{}, err
	}

	res := Result{Reconciled: reconciled, Status: inv.Status}
	if remaining := inv.Total - reconciled; remaining > 0 {
		res.Remaining = remaining
	}

	switch {
	case reconciled >= inv.Total:
		res.Status = entities.InvoiceStatusPaid
	case inv.Status == entities.InvoiceStatusPaid:
		res.Status = entities.InvoiceStatusSent
	}
	res.Changed = res.Status != inv.Status || reconciled != inv.PaidAmount
	return res, nil
}

// WithPayment returns payments with p added, or replacing the entry with the same id.
func WithPayment(payments []entities.Payment, p entities.Payment) []entities.Payment {
	out := make([]entities.Payment, 0, len(payments)+1)
	replaced := false
	for _, cur := range payments {
		if cur.ID == p.ID {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

// WithoutPayment returns payments minus the entry with id.
func WithoutPayment(payments []entities.Payment, id string) []entities.Payment {
	out := make([]entities.Payment, 0, len(payments))
	for _, cur := range payments {
		if cur.ID != id {
			out = append(out, cur)
		}
	}
	return out
}
