package interfaces

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/payment_gateway_mock.go

// IPaymentGateway abstracts external card payment providers (e.g. Mercado Pago).
//
// Invoices use it to charge the outstanding balance online and keep the provider id on the
// resulting payment for traceability.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error)
}
