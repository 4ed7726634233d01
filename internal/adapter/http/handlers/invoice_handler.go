package handlers

import (
	"net/http"
	"time"

	request "invoice_management/internal/adapter/http/dto/request"
	response "invoice_management/internal/adapter/http/dto/response"
	"invoice_management/internal/adapter/http/middleware"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
	now     func() time.Time
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc, now: time.Now}
}

// CreateInvoice godoc
// @Summary      Create invoice
// @Description  Creates a direct invoice (not converted from a quote). The due date defaults to the configured payment term.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      request.InvoiceRequest  true  "Invoice"
// @Success      201   {object}  response.Envelope
// @Failure      422   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var payload request.InvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	created, err := h.usecase.CreateInvoice(c.Request.Context(), middleware.OwnerID(c), payload.ToInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(response.FromInvoice(created)))
}

// ListInvoices godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        status  query     string  false  "DRAFT, SENT, OVERDUE or PAID"
// @Param        search  query     string  false  "Number or notes substring"
// @Success      200     {object}  response.Envelope
// @Security     Bearer
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter := interfaces.InvoiceFilter{
		Status: request.StatusRequest{Status: c.Query("status")}.InvoiceStatus(),
		Search: c.Query("search"),
	}
	list, err := h.usecase.ListInvoices(c.Request.Context(), middleware.OwnerID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInvoices(list)))
}

// GetInvoice godoc
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	found, err := h.usecase.GetInvoice(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInvoice(found)))
}

// GetInvoiceBalance godoc
// @Summary      Invoice balance
// @Description  Reconciled total and outstanding amount, recomputed from the invoice's payments.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Envelope
// @Security     Bearer
// @Router       /invoices/{id}/balance [get]
func (h *InvoiceHandler) GetInvoiceBalance(c *gin.Context) {
	balance, err := h.usecase.GetInvoiceBalance(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInvoiceBalance(balance)))
}

// UpdateInvoiceStatus godoc
// @Summary      Change invoice status
// @Description  Allowed edges: DRAFT→SENT, SENT→OVERDUE. PAID is derived from payments.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Invoice ID"
// @Param        body  body      request.StatusRequest  true  "Target status"
// @Success      200   {object}  response.Envelope
// @Failure      409   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	updated, err := h.usecase.UpdateInvoiceStatus(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), payload.InvoiceStatus())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInvoice(updated)))
}

// DeleteInvoice godoc
// @Summary      Delete invoice
// @Description  Deletes the invoice together with its payments.
// @Tags         invoices
// @Param        id   path  string  true  "Invoice ID"
// @Success      204
// @Security     Bearer
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.usecase.DeleteInvoice(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkOverdueInvoices godoc
// @Summary      Mark overdue invoices
// @Description  Moves every SENT invoice whose due date is before as_of (default now) to OVERDUE.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      request.OverdueRequest  false  "Reference instant"
// @Success      200   {object}  response.Envelope
// @Security     Bearer
// @Router       /invoices/overdue [post]
func (h *InvoiceHandler) MarkOverdueInvoices(c *gin.Context) {
	var payload request.OverdueRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			abortInvalidRequest(c)
			return
		}
	}

	result, err := h.usecase.MarkOverdueInvoices(c.Request.Context(), middleware.OwnerID(c), payload.ResolveAsOf(h.now()))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromOverdueResult(result)))
}
