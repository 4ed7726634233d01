package handlers

import (
	"net/http"
	"testing"

	"invoice_management/internal/adapter/http/handlers/mocks"
	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"

	"go.uber.org/mock/gomock"
)

func TestQuoteHandler_CreateQuote(t *testing.T) {
	t.Run("missing items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/quotes", NewQuoteHandler(uc).CreateQuote)

		w := doRequest(r, http.MethodPost, "/v1/quotes", `{"customer_id":"cust-1"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/quotes", NewQuoteHandler(uc).CreateQuote)

		want := usecase.QuoteInput{
			CustomerID: "cust-1",
			Items: []usecase.LineItemInput{
				{Name: "Design", Quantity: 1, UnitPrice: 300000},
				{Name: "Build", Quantity: 2, UnitPrice: 100000},
			},
		}
		uc.EXPECT().CreateQuote(gomock.Any(), testOwner, want).Return(entities.Quote{
			ID:          "quote-1",
			QuoteNumber: "QT-2026-0001",
			Status:      entities.QuoteStatusDraft,
			Subtotal:    500000,
			Tax:         50000,
			Total:       550000,
		}, nil)

		w := doRequest(r, http.MethodPost, "/v1/quotes",
			`{"customer_id":"cust-1","items":[{"name":"Design","quantity":1,"unit_price":300000},{"name":"Build","quantity":2,"unit_price":100000}]}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		data := dataOf(t, w)
		if data["quote_number"] != "QT-2026-0001" || data["total"] != float64(550000) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestQuoteHandler_ListQuotes(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIQuoteUseCase(ctrl)
	r := newTestRouter()
	r.GET("/v1/quotes", NewQuoteHandler(uc).ListQuotes)

	uc.EXPECT().ListQuotes(gomock.Any(), testOwner, interfaces.QuoteFilter{Status: entities.QuoteStatusSent, Search: "QT-2026"}).
		Return(nil, nil)

	w := doRequest(r, http.MethodGet, "/v1/quotes?status=sent&search=QT-2026", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestQuoteHandler_UpdateQuoteStatus(t *testing.T) {
	t.Run("invalid transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.PATCH("/v1/quotes/:id/status", NewQuoteHandler(uc).UpdateQuoteStatus)

		uc.EXPECT().UpdateQuoteStatus(gomock.Any(), testOwner, "quote-1", entities.QuoteStatusAccepted).
			Return(entities.Quote{}, usecase.ErrInvalidTransition)

		w := doRequest(r, http.MethodPatch, "/v1/quotes/quote-1/status", `{"status":"accepted"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.PATCH("/v1/quotes/:id/status", NewQuoteHandler(uc).UpdateQuoteStatus)

		uc.EXPECT().UpdateQuoteStatus(gomock.Any(), testOwner, "quote-1", entities.QuoteStatusSent).
			Return(entities.Quote{ID: "quote-1", Status: entities.QuoteStatusSent, Version: 2}, nil)

		w := doRequest(r, http.MethodPatch, "/v1/quotes/quote-1/status", `{"status":"SENT"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if data := dataOf(t, w); data["status"] != "SENT" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestQuoteHandler_ConvertQuote(t *testing.T) {
	t.Run("not accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/quotes/:id/convert", NewQuoteHandler(uc).ConvertQuote)

		uc.EXPECT().ConvertQuoteToInvoice(gomock.Any(), testOwner, "quote-1").Return(entities.Invoice{}, usecase.ErrQuoteNotAccepted)

		w := doRequest(r, http.MethodPost, "/v1/quotes/quote-1/convert", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["code"] != "QUOTE_NOT_ACCEPTED" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("already converted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/quotes/:id/convert", NewQuoteHandler(uc).ConvertQuote)

		uc.EXPECT().ConvertQuoteToInvoice(gomock.Any(), testOwner, "quote-1").Return(entities.Invoice{}, usecase.ErrQuoteAlreadyConverted)

		w := doRequest(r, http.MethodPost, "/v1/quotes/quote-1/convert", "")
		if body := decodeBody(t, w); w.Code != http.StatusConflict || body["code"] != "QUOTE_ALREADY_CONVERTED" {
			t.Fatalf("expected 409 QUOTE_ALREADY_CONVERTED, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIQuoteUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/quotes/:id/convert", NewQuoteHandler(uc).ConvertQuote)

		uc.EXPECT().ConvertQuoteToInvoice(gomock.Any(), testOwner, "quote-1").Return(entities.Invoice{
			ID:            "inv-1",
			QuoteID:       "quote-1",
			InvoiceNumber: "INV-20261018-001",
			Status:        entities.InvoiceStatusDraft,
			Total:         550000,
		}, nil)

		w := doRequest(r, http.MethodPost, "/v1/quotes/quote-1/convert", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if data := dataOf(t, w); data["invoice_number"] != "INV-20261018-001" || data["quote_id"] != "quote-1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestQuoteHandler_DeleteQuote(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIQuoteUseCase(ctrl)
	r := newTestRouter()
	r.DELETE("/v1/quotes/:id", NewQuoteHandler(uc).DeleteQuote)

	uc.EXPECT().DeleteQuote(gomock.Any(), testOwner, "quote-1").Return(usecase.ErrQuoteAlreadyConverted)

	w := doRequest(r, http.MethodDelete, "/v1/quotes/quote-1", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
