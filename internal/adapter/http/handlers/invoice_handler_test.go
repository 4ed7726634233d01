package handlers

import (
	"net/http"
	"testing"
	"time"

	"invoice_management/internal/adapter/http/handlers/mocks"
	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"

	"go.uber.org/mock/gomock"
)

func TestInvoiceHandler_CreateInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIInvoiceUseCase(ctrl)
	r := newTestRouter()
	r.POST("/v1/invoices", NewInvoiceHandler(uc).CreateInvoice)

	uc.EXPECT().CreateInvoice(gomock.Any(), testOwner, gomock.Any()).DoAndReturn(
		func(_ any, _ string, in usecase.InvoiceInput) (entities.Invoice, error) {
			if in.CustomerID != "cust-1" || len(in.Items) != 1 || in.Items[0].UnitPrice != 1500 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return entities.Invoice{ID: "inv-1", InvoiceNumber: "INV-20261018-001", Status: entities.InvoiceStatusDraft, Total: 4950}, nil
		})

	w := doRequest(r, http.MethodPost, "/v1/invoices", `{"customer_id":"cust-1","items":[{"name":"Audit","quantity":3,"unit_price":1500}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if data := dataOf(t, w); data["invoice_number"] != "INV-20261018-001" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestInvoiceHandler_ListAndGet(t *testing.T) {
	t.Run("list with filters", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		r := newTestRouter()
		r.GET("/v1/invoices", NewInvoiceHandler(uc).ListInvoices)

		uc.EXPECT().ListInvoices(gomock.Any(), testOwner, interfaces.InvoiceFilter{Status: entities.InvoiceStatusOverdue}).
			Return([]entities.Invoice{{ID: "inv-1", Status: entities.InvoiceStatusOverdue}}, nil)

		w := doRequest(r, http.MethodGet, "/v1/invoices?status=overdue", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("get storage unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		r := newTestRouter()
		r.GET("/v1/invoices/:id", NewInvoiceHandler(uc).GetInvoice)

		uc.EXPECT().GetInvoice(gomock.Any(), testOwner, "inv-1").Return(entities.Invoice{}, usecase.ErrTransientIO)

		w := doRequest(r, http.MethodGet, "/v1/invoices/inv-1", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_GetInvoiceBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIInvoiceUseCase(ctrl)
	r := newTestRouter()
	r.GET("/v1/invoices/:id/balance", NewInvoiceHandler(uc).GetInvoiceBalance)

	uc.EXPECT().GetInvoiceBalance(gomock.Any(), testOwner, "inv-1").Return(usecase.InvoiceBalance{
		Invoice:    entities.Invoice{ID: "inv-1", Total: 110000, PaidAmount: 60000},
		Reconciled: 60000,
		Remaining:  50000,
	}, nil)

	w := doRequest(r, http.MethodGet, "/v1/invoices/inv-1/balance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := dataOf(t, w)
	if data["reconciled"] != float64(60000) || data["remaining"] != float64(50000) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestInvoiceHandler_UpdateInvoiceStatus(t *testing.T) {
	t.Run("paid is not requestable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		r := newTestRouter()
		r.PATCH("/v1/invoices/:id/status", NewInvoiceHandler(uc).UpdateInvoiceStatus)

		uc.EXPECT().UpdateInvoiceStatus(gomock.Any(), testOwner, "inv-1", entities.InvoiceStatusPaid).
			Return(entities.Invoice{}, usecase.ErrInvalidTransition)

		w := doRequest(r, http.MethodPatch, "/v1/invoices/inv-1/status", `{"status":"PAID"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("missing status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		r := newTestRouter()
		r.PATCH("/v1/invoices/:id/status", NewInvoiceHandler(uc).UpdateInvoiceStatus)

		w := doRequest(r, http.MethodPatch, "/v1/invoices/inv-1/status", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_MarkOverdueInvoices(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	t.Run("defaults to now", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)
		h.now = func() time.Time { return now }
		r := newTestRouter()
		r.POST("/v1/invoices/overdue", h.MarkOverdueInvoices)

		uc.EXPECT().MarkOverdueInvoices(gomock.Any(), testOwner, now).Return(usecase.OverdueResult{
			Marked:  []entities.Invoice{{ID: "inv-1", Status: entities.InvoiceStatusOverdue}},
			Skipped: 1,
		}, nil)

		w := doRequest(r, http.MethodPost, "/v1/invoices/overdue", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data := dataOf(t, w)
		if marked, _ := data["marked"].([]any); len(marked) != 1 || data["skipped"] != float64(1) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("explicit as_of", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/invoices/overdue", NewInvoiceHandler(uc).MarkOverdueInvoices)

		asOf := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
		uc.EXPECT().MarkOverdueInvoices(gomock.Any(), testOwner, asOf).Return(usecase.OverdueResult{}, nil)

		w := doRequest(r, http.MethodPost, "/v1/invoices/overdue", `{"as_of":"2026-12-01T00:00:00Z"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_DeleteInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIInvoiceUseCase(ctrl)
	r := newTestRouter()
	r.DELETE("/v1/invoices/:id", NewInvoiceHandler(uc).DeleteInvoice)

	uc.EXPECT().DeleteInvoice(gomock.Any(), testOwner, "inv-1").Return(nil)

	w := doRequest(r, http.MethodDelete, "/v1/invoices/inv-1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
