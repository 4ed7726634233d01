package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/reconciliation"
	"invoice_management/internal/usecase/interfaces"
)

// ChargeInput carries the card payload forwarded to the payment gateway (token,
// payment_method_id, payer...). The amount is always taken from the invoice balance.
type ChargeInput struct {
	Payload json.RawMessage
}

const providerStatusApproved = "approved"

// ChargeInvoice charges the invoice's outstanding balance through the payment gateway and
// records the result as a CREDIT_CARD payment. An approved charge is RECONCILED right away;
// any other provider status is RECORDED for manual follow-up.
func (u *PaymentUseCase) ChargeInvoice(ctx context.Context, ownerID, invoiceID string, in ChargeInput) (entities.Payment, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Payment{}, err
	}
	if invoiceID, err = requireID("invoice", invoiceID); err != nil {
		return entities.Payment{}, err
	}
	log := u.log.With().Str("owner_id", ownerID).Str("invoice_id", invoiceID).Logger()
	log.Info().Int("payload_len", len(in.Payload)).Msg("charge start")

	payload := in.Payload
	if len(payload) == 0 || !json.Valid(payload) {
		if !u.settings.Mock {
			return entities.Payment{}, ErrInvalidGatewayPayload
		}
		payload = json.RawMessage("{}")
	}
	if u.gateway == nil {
		log.Error().Msg("gateway not configured")
		return entities.Payment{}, ErrPaymentGatewayNotConfigured
	}

	var (
		inv     entities.Invoice
		balance reconciliation.Result
	)
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		inv, err = loadInvoice(ctx, repos, ownerID, invoiceID)
		if err != nil {
			return err
		}
		payments, err := repos.Payments.ListByInvoiceID(ctx, inv.ID)
		if err != nil {
			return err
		}
		balance, err = reconciliation.Recompute(inv, payments)
		if err != nil {
			return invalid("%v", err)
		}
		return nil
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if balance.Remaining <= 0 {
		return entities.Payment{}, ErrInvoiceAlreadySettled
	}

	payload, err = u.enrichPayload(payload, inv, balance.Remaining)
	if err != nil {
		log.Warn().Err(err).Msg("charge payload rejected")
		return entities.Payment{}, err
	}

	providerID, providerStatus, providerResp, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		log.Error().Err(err).Msg("payment gateway failed")
		return entities.Payment{}, classifyGatewayError(err)
	}
	log.Info().Str("provider_payment_id", providerID).Str("provider_status", providerStatus).
		Int("provider_response_len", len(providerResp)).Msg("payment gateway responded")

	status := entities.PaymentStatusRecorded
	if strings.EqualFold(providerStatus, providerStatusApproved) {
		status = entities.PaymentStatusReconciled
	}
	now := u.now()
	p := entities.Payment{
		ID:                u.newID(),
		OwnerID:           ownerID,
		InvoiceID:         inv.ID,
		Amount:            balance.Remaining,
		PaidAt:            now,
		Method:            entities.PaymentMethodCreditCard,
		Status:            status,
		Notes:             fmt.Sprintf("Mercado Pago payment %s (%s)", providerID, providerStatus),
		ProviderReference: providerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, rec, err := u.record(ctx, ownerID, p)
	if err != nil {
		// The provider already charged the card; the reference is logged so the payment can
		// be recorded by hand.
		log.Error().Err(err).Str("provider_payment_id", providerID).Msg("charge succeeded but payment was not recorded")
		return entities.Payment{}, err
	}
	u.afterMutation(ctx, entities.EventPaymentRecorded, created, rec)
	return created, nil
}

// enrichPayload links the gateway request to the invoice and pins the amount to the
// outstanding balance.
func (u *PaymentUseCase) enrichPayload(payload json.RawMessage, inv entities.Invoice, amount int64) (json.RawMessage, error) {
	var req map[string]any
	if err := json.Unmarshal(payload, &req); err != nil || req == nil {
		if !u.settings.Mock {
			return nil, ErrInvalidGatewayPayload
		}
		req = map[string]any{}
	}

	if !u.settings.Mock {
		if !hasNonEmptyString(req, "payment_method_id") {
			return nil, fmt.Errorf("%w: missing payment_method_id", ErrInvalidGatewayPayload)
		}
		ensurePayerDefaults(req, u.settings.SandboxPayerEmail)
		if !hasPayer(req) {
			return nil, fmt.Errorf("%w: missing payer", ErrInvalidGatewayPayload)
		}
	}

	if _, ok := req["external_reference"]; !ok {
		req["external_reference"] = inv.ID
	}
	if _, ok := req["description"]; !ok {
		req["description"] = fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	}
	req["transaction_amount"] = float64(amount)

	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGatewayPayload, err)
	}
	return b, nil
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func ensurePayerDefaults(m map[string]any, sandboxEmail string) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") && sandboxEmail != "" {
		payer["email"] = sandboxEmail
	}
}

// classifyGatewayError maps provider error bodies onto gateway sentinels.
func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found"), strings.Contains(msg, `"code":2002`):
		return fmt.Errorf("%w: %w", ErrPaymentGatewayCustomerNotFound, err)
	case strings.Contains(msg, "invalid users involved"), strings.Contains(msg, `"code":2034`):
		return fmt.Errorf("%w: %w", ErrPaymentGatewayInvalidUsers, err)
	case strings.Contains(msg, `"error":"unauthorized"`), strings.Contains(msg, `"status":401`):
		return fmt.Errorf("%w: %w", ErrPaymentGatewayUnauthorized, err)
	case strings.Contains(msg, `"error":"bad_request"`), strings.Contains(msg, `"status":400`):
		return fmt.Errorf("%w: %w", ErrPaymentGatewayBadRequest, err)
	}
	return err
}
