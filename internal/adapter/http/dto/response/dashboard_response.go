package response

import (
	"time"

	"invoice_management/internal/domain/reporting"
)

type OverdueInvoiceResponse struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"due_date"`
	Total         int64     `json:"total"`
	Remaining     int64     `json:"remaining"`
}

type DashboardResponse struct {
	MonthStart      time.Time                `json:"month_start"`
	MonthEnd        time.Time                `json:"month_end"`
	MonthlySales    int64                    `json:"monthly_sales"`
	MonthlyPayments int64                    `json:"monthly_payments"`
	TotalUnpaid     int64                    `json:"total_unpaid"`
	CustomerCount   int                      `json:"customer_count"`
	StatusCounts    map[string]int           `json:"status_counts"`
	Overdue         []OverdueInvoiceResponse `json:"overdue"`
	RecentQuotes    []QuoteResponse          `json:"recent_quotes"`
	RecentInvoices  []InvoiceResponse        `json:"recent_invoices"`
	RecentPayments  []PaymentResponse        `json:"recent_payments"`
}

func FromDashboard(d reporting.Dashboard) DashboardResponse {
	counts := make(map[string]int, len(d.StatusCounts))
	for status, n := range d.StatusCounts {
		counts[string(status)] = n
	}
	overdue := make([]OverdueInvoiceResponse, 0, len(d.Overdue))
	for _, o := range d.Overdue {
		overdue = append(overdue, OverdueInvoiceResponse{
			InvoiceID:     o.Invoice.ID,
			InvoiceNumber: o.Invoice.InvoiceNumber,
			CustomerID:    o.Invoice.CustomerID,
			CustomerName:  o.CustomerName,
			Status:        string(o.Invoice.Status),
			DueDate:       o.Invoice.DueDate,
			Total:         o.Invoice.Total,
			Remaining:     o.Invoice.Total - o.Invoice.PaidAmount,
		})
	}
	return DashboardResponse{
		MonthStart:      d.MonthStart,
		MonthEnd:        d.MonthEnd,
		MonthlySales:    d.MonthlySales,
		MonthlyPayments: d.MonthlyPayments,
		TotalUnpaid:     d.TotalUnpaid,
		CustomerCount:   d.CustomerCount,
		StatusCounts:    counts,
		Overdue:         overdue,
		RecentQuotes:    FromQuotes(d.RecentQuotes),
		RecentInvoices:  FromInvoices(d.RecentInvoices),
		RecentPayments:  FromPayments(d.RecentPayments),
	}
}
