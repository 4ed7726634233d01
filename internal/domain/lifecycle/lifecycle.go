// Package lifecycle holds the allowed status edges for quotes and invoices.
package lifecycle

import (
	"errors"
	"fmt"

	"invoice_management/internal/domain/entities"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError describes a rejected edge.
type TransitionError struct {
	Document string
	From     string
	To       string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Document, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

var quoteEdges = map[entities.QuoteStatus][]entities.QuoteStatus{
	entities.QuoteStatusDraft: {entities.QuoteStatusSent},
	entities.QuoteStatusSent:  {entities.QuoteStatusAccepted, entities.QuoteStatusRejected},
}

// invoiceUserEdges are the edges a caller may request. PAID is reachable only through
// reconciliation.
var invoiceUserEdges = map[entities.InvoiceStatus][]entities.InvoiceStatus{
	entities.InvoiceStatusDraft: {entities.InvoiceStatusSent},
	entities.InvoiceStatusSent:  {entities.InvoiceStatusOverdue},
}

var invoiceReconcileEdges = map[entities.InvoiceStatus][]entities.InvoiceStatus{
	entities.InvoiceStatusDraft:   {entities.InvoiceStatusPaid},
	entities.InvoiceStatusSent:    {entities.InvoiceStatusPaid},
	entities.InvoiceStatusOverdue: {entities.InvoiceStatusPaid},
	entities.InvoiceStatusPaid:    {entities.InvoiceStatusSent},
}

func contains[S comparable](list []S, v S) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// QuoteTransition validates a user requested quote status change.
func QuoteTransition(from, to entities.QuoteStatus) error {
	if contains(quoteEdges[from], to) {
		return nil
	}
	return &TransitionError{Document: "quote", From: string(from), To: string(to)}
}

// InvoiceTransition validates a user requested invoice status change.
func InvoiceTransition(from, to entities.InvoiceStatus) error {
	if contains(invoiceUserEdges[from], to) {
		return nil
	}
	return &TransitionError{Document: "invoice", From: string(from), To: string(to)}
}

// ReconcileTransition validates a status change produced by payment reconciliation.
func ReconcileTransition(from, to entities.InvoiceStatus) error {
	if from == to || contains(invoiceReconcileEdges[from], to) {
		return nil
	}
	return &TransitionError{Document: "invoice", From: string(from), To: string(to)}
}

// CanConvert reports whether a quote in status may become an invoice.
func CanConvert(status entities.QuoteStatus) bool {
	return status == entities.QuoteStatusAccepted
}
