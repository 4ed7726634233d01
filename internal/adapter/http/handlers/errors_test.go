package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/lifecycle"
	"invoice_management/internal/usecase"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing owner", usecase.ErrMissingOwner, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"gateway payload", usecase.ErrInvalidGatewayPayload, http.StatusBadRequest, "INVALID_REQUEST"},
		{"validation", fmt.Errorf("%w: Items failed min=1", usecase.ErrValidation), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"quote not found", usecase.ErrQuoteNotFound, http.StatusNotFound, "QUOTE_NOT_FOUND"},
		{"payment not found", usecase.ErrPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
		{"not accepted", usecase.ErrQuoteNotAccepted, http.StatusConflict, "QUOTE_NOT_ACCEPTED"},
		{"transition", &lifecycle.TransitionError{Document: "invoice", From: string(entities.InvoiceStatusDraft), To: string(entities.InvoiceStatusOverdue)}, http.StatusConflict, "INVALID_TRANSITION"},
		{"already converted", usecase.ErrQuoteAlreadyConverted, http.StatusConflict, "QUOTE_ALREADY_CONVERTED"},
		{"customer in use", usecase.ErrCustomerInUse, http.StatusConflict, "CUSTOMER_IN_USE"},
		{"transient", fmt.Errorf("%w: %w", usecase.ErrTransientIO, errors.New("disk I/O error")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"gateway unauthorized", usecase.ErrPaymentGatewayUnauthorized, http.StatusUnauthorized, "PAYMENT_PROVIDER_UNAUTHORIZED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := mapError(tc.err)
			if appErr.HTTPStatus != tc.status || appErr.Code != tc.code {
				t.Fatalf("expected %d %s, got %d %s", tc.status, tc.code, appErr.HTTPStatus, appErr.Code)
			}
		})
	}
}
