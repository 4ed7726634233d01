package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoice_management/internal/adapter/http/handlers/mocks"
	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase"
	"invoice_management/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

type failingReadCloser struct{}

func (failingReadCloser) Read(_ []byte) (int, error) { return 0, errors.New("read error") }
func (failingReadCloser) Close() error               { return nil }

func TestPaymentHandler_CreatePayment(t *testing.T) {
	t.Run("missing method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/payments", NewPaymentHandler(uc, false).CreatePayment)

		w := doRequest(r, http.MethodPost, "/v1/payments", `{"invoice_id":"inv-1","amount":60000}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/payments", NewPaymentHandler(uc, false).CreatePayment)

		want := usecase.PaymentInput{InvoiceID: "inv-1", Amount: 60000, Method: entities.PaymentMethodBankTransfer, Status: entities.PaymentStatusReconciled}
		uc.EXPECT().CreatePayment(gomock.Any(), testOwner, want).Return(entities.Payment{
			ID: "pay-1", InvoiceID: "inv-1", Amount: 60000, Method: entities.PaymentMethodBankTransfer, Status: entities.PaymentStatusReconciled,
		}, nil)

		w := doRequest(r, http.MethodPost, "/v1/payments", `{"invoice_id":"inv-1","amount":60000,"method":"BANK_TRANSFER","status":"reconciled"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if data := dataOf(t, w); data["id"] != "pay-1" || data["status"] != "RECONCILED" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIPaymentUseCase(ctrl)
	r := newTestRouter()
	r.GET("/v1/payments", NewPaymentHandler(uc, false).ListPayments)

	uc.EXPECT().ListPayments(gomock.Any(), testOwner, interfaces.PaymentFilter{
		Status: entities.PaymentStatusReconciled, InvoiceID: "inv-1", Search: "Acme",
	}).Return([]entities.Payment{{ID: "pay-1"}}, nil)

	w := doRequest(r, http.MethodGet, "/v1/payments?status=reconciled&invoice_id=inv-1&search=Acme", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPaymentHandler_UpdateAndDelete(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.PATCH("/v1/payments/:id", NewPaymentHandler(uc, false).UpdatePayment)

		uc.EXPECT().UpdatePayment(gomock.Any(), testOwner, "pay-1", gomock.Any()).DoAndReturn(
			func(_ any, _, _ string, in usecase.PaymentUpdate) (entities.Payment, error) {
				if in.Status == nil || *in.Status != entities.PaymentStatusCancelled || in.Amount != nil {
					t.Fatalf("unexpected update: %+v", in)
				}
				return entities.Payment{ID: "pay-1", Status: entities.PaymentStatusCancelled}, nil
			})

		w := doRequest(r, http.MethodPatch, "/v1/payments/pay-1", `{"status":"CANCELLED"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("get not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.GET("/v1/payments/:id", NewPaymentHandler(uc, false).GetPayment)

		uc.EXPECT().GetPayment(gomock.Any(), testOwner, "pay-9").Return(entities.Payment{}, usecase.ErrPaymentNotFound)

		w := doRequest(r, http.MethodGet, "/v1/payments/pay-9", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.DELETE("/v1/payments/:id", NewPaymentHandler(uc, false).DeletePayment)

		uc.EXPECT().DeletePayment(gomock.Any(), testOwner, "pay-1").Return(nil)

		w := doRequest(r, http.MethodDelete, "/v1/payments/pay-1", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}

func TestPaymentHandler_ChargeInvoice(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/invoices/:id/charge", NewPaymentHandler(uc, false).ChargeInvoice)

		w := doRequest(r, http.MethodPost, "/v1/invoices/inv-1/charge", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid payload in mock mode falls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/invoices/:id/charge", NewPaymentHandler(uc, true).ChargeInvoice)

		uc.EXPECT().ChargeInvoice(gomock.Any(), testOwner, "inv-1", usecase.ChargeInput{Payload: json.RawMessage("{}")}).
			Return(entities.Payment{ID: "pay-1", Status: entities.PaymentStatusReconciled}, nil)

		w := doRequest(r, http.MethodPost, "/v1/invoices/inv-1/charge", "{")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("usecase mapped error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/invoices/:id/charge", NewPaymentHandler(uc, false).ChargeInvoice)

		uc.EXPECT().ChargeInvoice(gomock.Any(), testOwner, "inv-1", gomock.Any()).Return(entities.Payment{}, usecase.ErrInvoiceAlreadySettled)

		w := doRequest(r, http.MethodPost, "/v1/invoices/inv-1/charge", `{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("wrapped payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newTestRouter()
		r.POST("/v1/invoices/:id/charge", NewPaymentHandler(uc, false).ChargeInvoice)

		uc.EXPECT().ChargeInvoice(gomock.Any(), testOwner, "inv-1", gomock.Any()).DoAndReturn(
			func(_ any, _, _ string, in usecase.ChargeInput) (entities.Payment, error) {
				var body map[string]any
				if err := json.Unmarshal(in.Payload, &body); err != nil || body["payment_method_id"] != "pix" {
					t.Fatalf("expected unwrapped mp_payload, got %s", in.Payload)
				}
				return entities.Payment{ID: "pay-1", InvoiceID: "inv-1", Method: entities.PaymentMethodCreditCard, Status: entities.PaymentStatusReconciled, ProviderReference: "123"}, nil
			})

		w := doRequest(r, http.MethodPost, "/v1/invoices/inv-1/charge", `{"mp_payload":{"payment_method_id":"pix","payer":{"email":"x@test.com"}}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if data := dataOf(t, w); data["provider_reference"] != "123" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestReadMPPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	read := func(body string) (json.RawMessage, error) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		return readMPPayload(c)
	}

	if raw, err := read("  "); err != nil || string(raw) != "{}" {
		t.Fatalf("expected empty object, got %s %v", raw, err)
	}
	if _, err := read(`{"mp_payload":null}`); err == nil {
		t.Fatalf("expected error for null mp_payload")
	}
	if raw, err := read(`{"token":"abc"}`); err != nil || string(raw) != `{"token":"abc"}` {
		t.Fatalf("expected raw payload, got %s %v", raw, err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.Body = failingReadCloser{}
	if _, err := readMPPayload(c); err == nil {
		t.Fatalf("expected read error")
	}
}
