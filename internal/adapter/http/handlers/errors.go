package handlers

import (
	"errors"
	"net/http"

	"invoice_management/internal/usecase"
	"invoice_management/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

func abortInvalidRequest(c *gin.Context) {
	c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
}

func abortWithError(c *gin.Context, err error) {
	appErr := mapError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// mapError turns use case errors into API errors. Specific errors are matched before the
// category they wrap.
func mapError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrMissingOwner):
		return pkg.NewDomainError("UNAUTHORIZED", "Missing owner", err, http.StatusUnauthorized)

	case errors.Is(err, usecase.ErrInvalidGatewayPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", http.StatusServiceUnavailable)

	case errors.Is(err, usecase.ErrValidation):
		return pkg.NewDomainError("VALIDATION_ERROR", err.Error(), err, http.StatusUnprocessableEntity)

	case errors.Is(err, usecase.ErrCustomerNotFound):
		return pkg.NewDomainErrorSimple("CUSTOMER_NOT_FOUND", "Customer not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNotFound):
		return pkg.NewDomainErrorSimple("NOT_FOUND", "Not found", http.StatusNotFound)

	case errors.Is(err, usecase.ErrQuoteNotAccepted):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_ACCEPTED", "Only accepted quotes can be converted", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvoiceAlreadySettled):
		return pkg.NewDomainErrorSimple("INVOICE_ALREADY_SETTLED", "Invoice has no outstanding balance", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_TRANSITION", err.Error(), err, http.StatusConflict)

	case errors.Is(err, usecase.ErrQuoteAlreadyConverted):
		return pkg.NewDomainErrorSimple("QUOTE_ALREADY_CONVERTED", "Quote has already been converted to an invoice", http.StatusConflict)
	case errors.Is(err, usecase.ErrCustomerInUse):
		return pkg.NewDomainErrorSimple("CUSTOMER_IN_USE", "Customer is referenced by quotes or invoices", http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrentUpdate):
		return pkg.NewDomainErrorSimple("CONCURRENT_UPDATE", "Document was modified concurrently, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrNumberUnavailable):
		return pkg.NewDomainErrorSimple("NUMBER_UNAVAILABLE", "Could not allocate a document number, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrConflict):
		return pkg.NewDomainErrorSimple("CONFLICT", "Conflict", http.StatusConflict)

	case errors.Is(err, usecase.ErrTransientIO):
		return pkg.NewDomainError("SERVICE_UNAVAILABLE", "Storage unavailable, retry later", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
