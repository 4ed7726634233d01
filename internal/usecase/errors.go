package usecase

import (
	"errors"
	"fmt"

	"invoice_management/internal/domain/lifecycle"
	"invoice_management/internal/domain/numbering"
	"invoice_management/internal/usecase/interfaces"
)

// Error taxonomy. Errors returned by the document and payment operations match one of
// these with errors.Is; the transport layer maps them to status codes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
	ErrConflict          = errors.New("conflict")
	ErrTransientIO       = errors.New("storage unavailable")
	ErrMissingOwner      = errors.New("missing owner")
)

var (
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrQuoteNotFound    = fmt.Errorf("quote %w", ErrNotFound)
	ErrInvoiceNotFound  = fmt.Errorf("invoice %w", ErrNotFound)
	ErrPaymentNotFound  = fmt.Errorf("payment %w", ErrNotFound)

	ErrQuoteNotAccepted      = fmt.Errorf("%w: only accepted quotes can be converted", ErrInvalidTransition)
	ErrInvoiceAlreadySettled = fmt.Errorf("%w: invoice has no outstanding balance", ErrInvalidTransition)

	ErrQuoteAlreadyConverted = fmt.Errorf("%w: quote has already been converted to an invoice", ErrConflict)
	ErrCustomerInUse         = fmt.Errorf("%w: customer is referenced by quotes or invoices", ErrConflict)
	ErrConcurrentUpdate      = fmt.Errorf("%w: document was modified concurrently", ErrConflict)
	ErrNumberUnavailable     = fmt.Errorf("%w: could not allocate a unique document number", ErrConflict)
)

// Payment gateway failures, classified from the provider response.
var (
	ErrInvalidGatewayPayload          = fmt.Errorf("%w: invalid payment gateway payload", ErrValidation)
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// classify maps store and domain errors onto the use case taxonomy. Errors that already
// belong to the taxonomy pass through unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflict), errors.Is(err, ErrTransientIO), errors.Is(err, ErrMissingOwner):
		return err
	case errors.Is(err, interfaces.ErrVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, interfaces.ErrQuoteAlreadyInvoiced):
		return ErrQuoteAlreadyConverted
	case errors.Is(err, interfaces.ErrDuplicateNumber), errors.Is(err, numbering.ErrNoFreeNumber):
		return ErrNumberUnavailable
	case errors.Is(err, interfaces.ErrReferenced):
		return ErrCustomerInUse
	case errors.Is(err, numbering.ErrMissingOwner):
		return ErrMissingOwner
	}
	return fmt.Errorf("%w: %w", ErrTransientIO, err)
}
