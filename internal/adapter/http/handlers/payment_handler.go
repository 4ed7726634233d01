package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	request "invoice_management/internal/adapter/http/dto/request"
	response "invoice_management/internal/adapter/http/dto/response"
	"invoice_management/internal/adapter/http/middleware"
	"invoice_management/internal/domain/entities"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PaymentHandler handles HTTP requests for payments and online invoice charges.
type PaymentHandler struct {
	usecase     usecase.IPaymentUseCase
	mockGateway bool
	log         zerolog.Logger
}

// NewPaymentHandler builds the handler. With mockGateway set, malformed charge bodies fall
// back to an empty gateway payload instead of being rejected.
func NewPaymentHandler(uc usecase.IPaymentUseCase, mockGateway bool) *PaymentHandler {
	return &PaymentHandler{usecase: uc, mockGateway: mockGateway, log: logger.WithComponent("payment_handler")}
}

// CreatePayment godoc
// @Summary      Record payment
// @Description  Records a payment against an invoice and reconciles the invoice status.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      request.PaymentRequest  true  "Payment"
// @Success      201   {object}  response.Envelope
// @Failure      422   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload request.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	created, err := h.usecase.CreatePayment(c.Request.Context(), middleware.OwnerID(c), payload.ToInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(response.FromPayment(created)))
}

// ListPayments godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        status      query     string  false  "RECORDED, RECONCILED or CANCELLED"
// @Param        invoice_id  query     string  false  "Invoice ID"
// @Param        search      query     string  false  "Invoice number or customer name substring"
// @Success      200         {object}  response.Envelope
// @Security     Bearer
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	filter := interfaces.PaymentFilter{
		Status:    entities.PaymentStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		InvoiceID: strings.TrimSpace(c.Query("invoice_id")),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	list, err := h.usecase.ListPayments(c.Request.Context(), middleware.OwnerID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromPayments(list)))
}

// GetPayment godoc
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	found, err := h.usecase.GetPayment(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromPayment(found)))
}

// UpdatePayment godoc
// @Summary      Update payment
// @Description  Changes amount, date, method, status or notes and reconciles the invoice.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "Payment ID"
// @Param        body  body      request.PaymentPatchRequest  true  "Fields to change"
// @Success      200   {object}  response.Envelope
// @Security     Bearer
// @Router       /payments/{id} [patch]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	var payload request.PaymentPatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	updated, err := h.usecase.UpdatePayment(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), payload.ToUpdate())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromPayment(updated)))
}

// DeletePayment godoc
// @Summary      Delete payment
// @Description  Deletes the payment and reconciles the invoice from the remaining payments.
// @Tags         payments
// @Param        id   path  string  true  "Payment ID"
// @Success      204
// @Security     Bearer
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.usecase.DeletePayment(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChargeInvoice godoc
// @Summary      Charge invoice by card
// @Description  Charges the outstanding balance through Mercado Pago. The body is the gateway payload, optionally wrapped in mp_payload.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Invoice ID"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /invoices/{id}/charge [post]
func (h *PaymentHandler) ChargeInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	log := h.log.With().Str("invoice_id", invoiceID).Logger()

	mpPayload, err := readMPPayload(c)
	if err != nil {
		if !h.mockGateway {
			log.Warn().Err(err).Msg("invalid charge payload")
			abortInvalidRequest(c)
			return
		}
		log.Debug().Err(err).Msg("invalid charge payload in mock mode, using empty payload")
		mpPayload = json.RawMessage("{}")
	}

	created, err := h.usecase.ChargeInvoice(c.Request.Context(), middleware.OwnerID(c), invoiceID, usecase.ChargeInput{Payload: mpPayload})
	if err != nil {
		log.Warn().Err(err).Msg("charge failed")
		abortWithError(c, err)
		return
	}
	log.Info().Str("payment_id", created.ID).Str("status", string(created.Status)).Msg("charge success")
	c.JSON(http.StatusCreated, response.OK(response.FromPayment(created)))
}

// readMPPayload accepts either a raw gateway payload or one wrapped as {"mp_payload": {...}}.
func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if len(strings.TrimSpace(string(wrapped))) == 0 || strings.TrimSpace(string(wrapped)) == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}
