package routes

import (
	"invoice_management/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathCustomers = "/customers"
	PathQuotes    = "/quotes"
	PathInvoices  = "/invoices"
	PathPayments  = "/payments"
	PathDashboard = "/dashboard"
)

func addBillingRoutes(rg *gin.RouterGroup, h Handlers) {
	customers := rg.Group(PathCustomers)
	{
		customers.POST("", h.Customers.CreateCustomer)
		customers.GET("", h.Customers.ListCustomers)
		customers.GET("/:id", h.Customers.GetCustomer)
		customers.PUT("/:id", h.Customers.UpdateCustomer)
		customers.DELETE("/:id", h.Customers.DeleteCustomer)
	}

	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", h.Quotes.CreateQuote)
		quotes.GET("", h.Quotes.ListQuotes)
		quotes.GET("/:id", h.Quotes.GetQuote)
		quotes.DELETE("/:id", h.Quotes.DeleteQuote)
		quotes.PATCH("/:id/status", h.Quotes.UpdateQuoteStatus)
		quotes.POST("/:id/convert", h.Quotes.ConvertQuote)
	}

	invoices := rg.Group(PathInvoices)
	{
		invoices.POST("", h.Invoices.CreateInvoice)
		invoices.GET("", h.Invoices.ListInvoices)
		invoices.POST("/overdue", h.Invoices.MarkOverdueInvoices)
		invoices.GET("/:id", h.Invoices.GetInvoice)
		invoices.DELETE("/:id", h.Invoices.DeleteInvoice)
		invoices.PATCH("/:id/status", h.Invoices.UpdateInvoiceStatus)
		invoices.GET("/:id/balance", h.Invoices.GetInvoiceBalance)
		invoices.POST("/:id/charge", h.Payments.ChargeInvoice)
	}

	payments := rg.Group(PathPayments)
	{
		payments.POST("", h.Payments.CreatePayment)
		payments.GET("", h.Payments.ListPayments)
		payments.GET("/:id", h.Payments.GetPayment)
		payments.PATCH("/:id", h.Payments.UpdatePayment)
		payments.DELETE("/:id", h.Payments.DeletePayment)
	}

	rg.GET(PathDashboard, h.Dashboard.GetDashboard)
}

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Customers *handlers.CustomerHandler
	Quotes    *handlers.QuoteHandler
	Invoices  *handlers.InvoiceHandler
	Payments  *handlers.PaymentHandler
	Dashboard *handlers.DashboardHandler
}
