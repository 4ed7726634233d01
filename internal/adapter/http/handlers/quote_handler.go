package handlers

import (
	"net/http"

	request "invoice_management/internal/adapter/http/dto/request"
	response "invoice_management/internal/adapter/http/dto/response"
	"invoice_management/internal/adapter/http/middleware"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
)

// QuoteHandler handles HTTP requests for quotes and their conversion into invoices.
type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// CreateQuote godoc
// @Summary      Create quote
// @Description  Allocates the next quote number and computes subtotal, tax and total.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body      request.QuoteRequest  true  "Quote"
// @Success      201   {object}  response.Envelope
// @Failure      422   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	created, err := h.usecase.CreateQuote(c.Request.Context(), middleware.OwnerID(c), payload.ToInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(response.FromQuote(created)))
}

// ListQuotes godoc
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        status  query     string  false  "DRAFT, SENT, ACCEPTED or REJECTED"
// @Param        search  query     string  false  "Number or notes substring"
// @Success      200     {object}  response.Envelope
// @Security     Bearer
// @Router       /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	filter := interfaces.QuoteFilter{
		Status: request.StatusRequest{Status: c.Query("status")}.QuoteStatus(),
		Search: c.Query("search"),
	}
	list, err := h.usecase.ListQuotes(c.Request.Context(), middleware.OwnerID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromQuotes(list)))
}

// GetQuote godoc
// @Summary      Get quote
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	found, err := h.usecase.GetQuote(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromQuote(found)))
}

// UpdateQuoteStatus godoc
// @Summary      Change quote status
// @Description  Allowed edges: DRAFT→SENT, SENT→ACCEPTED, SENT→REJECTED.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Quote ID"
// @Param        body  body      request.StatusRequest  true  "Target status"
// @Success      200   {object}  response.Envelope
// @Failure      409   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateQuoteStatus(c *gin.Context) {
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	updated, err := h.usecase.UpdateQuoteStatus(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), payload.QuoteStatus())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromQuote(updated)))
}

// DeleteQuote godoc
// @Summary      Delete quote
// @Tags         quotes
// @Param        id   path  string  true  "Quote ID"
// @Success      204
// @Failure      409  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.usecase.DeleteQuote(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConvertQuote godoc
// @Summary      Convert quote to invoice
// @Description  Only ACCEPTED quotes convert, and each quote converts at most once.
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      201  {object}  response.Envelope
// @Failure      409  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes/{id}/convert [post]
func (h *QuoteHandler) ConvertQuote(c *gin.Context) {
	inv, err := h.usecase.ConvertQuoteToInvoice(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(response.FromInvoice(inv)))
}
