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

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	usecase usecase.ICustomerUseCase
}

func NewCustomerHandler(uc usecase.ICustomerUseCase) *CustomerHandler {
	return &CustomerHandler{usecase: uc}
}

// CreateCustomer godoc
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      request.CustomerRequest  true  "Customer"
// @Success      201   {object}  response.Envelope
// @Failure      422   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var payload request.CustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	created, err := h.usecase.CreateCustomer(c.Request.Context(), middleware.OwnerID(c), payload.ToInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(response.FromCustomer(created)))
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search  query     string  false  "Name, email or phone substring"
// @Success      200     {object}  response.Envelope
// @Security     Bearer
// @Router       /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := interfaces.CustomerFilter{Search: c.Query("search")}
	list, err := h.usecase.ListCustomers(c.Request.Context(), middleware.OwnerID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromCustomers(list)))
}

// GetCustomer godoc
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	found, err := h.usecase.GetCustomer(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromCustomer(found)))
}

// UpdateCustomer godoc
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Customer ID"
// @Param        body  body      request.CustomerRequest  true  "Customer"
// @Success      200   {object}  response.Envelope
// @Security     Bearer
// @Router       /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var payload request.CustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortInvalidRequest(c)
		return
	}

	updated, err := h.usecase.UpdateCustomer(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), payload.ToInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromCustomer(updated)))
}

// DeleteCustomer godoc
// @Summary      Delete customer
// @Description  Fails with 409 while quotes or invoices reference the customer.
// @Tags         customers
// @Param        id   path  string  true  "Customer ID"
// @Success      204
// @Failure      409  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.usecase.DeleteCustomer(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
