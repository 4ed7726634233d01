package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestAppError_ToHTTPErrorHidesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	appErr := NewDomainError("STORE_UNAVAILABLE", "Storage is temporarily unavailable", cause, http.StatusServiceUnavailable)

	if !errors.Is(appErr, cause) {
		t.Fatalf("expected AppError to unwrap to its cause")
	}

	b, err := json.Marshal(appErr.ToHTTPError())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"success":false,"error":"Storage is temporarily unavailable","code":"STORE_UNAVAILABLE"}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}

func TestAppError_Error(t *testing.T) {
	simple := NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	if got := simple.Error(); got != "QUOTE_NOT_FOUND: Quote not found" {
		t.Fatalf("unexpected message: %q", got)
	}
	if simple.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", simple.HTTPStatus)
	}
}
