package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"invoice_management/internal/adapter/http/handlers/mocks"
	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/reporting"
	"invoice_management/internal/usecase"

	"go.uber.org/mock/gomock"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	t.Run("defaults to the use case clock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		r := newTestRouter()
		r.GET("/v1/dashboard", NewDashboardHandler(uc).GetDashboard)

		uc.EXPECT().GetDashboard(gomock.Any(), testOwner, time.Time{}).Return(reporting.Dashboard{
			MonthlySales: 110000,
			TotalUnpaid:  50000,
			StatusCounts: map[entities.InvoiceStatus]int{entities.InvoiceStatusSent: 1},
			Overdue: []reporting.OverdueInvoice{{
				Invoice:      entities.Invoice{ID: "inv-1", InvoiceNumber: "INV-20261001-001", Total: 110000, PaidAmount: 60000},
				CustomerName: "Acme",
			}},
		}, nil)

		w := doRequest(r, http.MethodGet, "/v1/dashboard", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data := dataOf(t, w)
		if data["monthly_sales"] != float64(110000) || data["total_unpaid"] != float64(50000) {
			t.Fatalf("unexpected figures: %s", w.Body.String())
		}
		counts, _ := data["status_counts"].(map[string]any)
		if counts["SENT"] != float64(1) {
			t.Fatalf("unexpected status counts: %v", data["status_counts"])
		}
		overdue, _ := data["overdue"].([]any)
		if len(overdue) != 1 {
			t.Fatalf("expected one overdue entry, got %v", data["overdue"])
		}
		entry, _ := overdue[0].(map[string]any)
		if entry["customer_name"] != "Acme" || entry["remaining"] != float64(50000) {
			t.Fatalf("unexpected overdue entry: %v", entry)
		}
		if recent, ok := data["recent_quotes"].([]any); !ok || len(recent) != 0 {
			t.Fatalf("expected an empty recent_quotes list, got %v", data["recent_quotes"])
		}
	})

	t.Run("explicit as_of", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		r := newTestRouter()
		r.GET("/v1/dashboard", NewDashboardHandler(uc).GetDashboard)

		asOf := time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC)
		uc.EXPECT().GetDashboard(gomock.Any(), testOwner, asOf).Return(reporting.Dashboard{}, nil)

		w := doRequest(r, http.MethodGet, "/v1/dashboard?as_of=2026-09-30T23:00:00Z", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("invalid as_of", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r := newTestRouter()
		r.GET("/v1/dashboard", NewDashboardHandler(mocks.NewMockIDashboardUseCase(ctrl)).GetDashboard)

		w := doRequest(r, http.MethodGet, "/v1/dashboard?as_of=yesterday", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("storage unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		r := newTestRouter()
		r.GET("/v1/dashboard", NewDashboardHandler(uc).GetDashboard)

		uc.EXPECT().GetDashboard(gomock.Any(), testOwner, time.Time{}).Return(reporting.Dashboard{}, errors.Join(usecase.ErrTransientIO, errors.New("disk I/O error")))

		w := doRequest(r, http.MethodGet, "/v1/dashboard", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})
}
