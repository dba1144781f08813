package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/gotransfer/internal/adapter/http/dto"
	"github.com/iho/gotransfer/internal/domain"
	"github.com/iho/gotransfer/internal/usecase"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", &domain.AccountNotFoundError{ID: "1"}, http.StatusNotFound},
		{"duplicate account", &domain.DuplicateAccountError{ID: "1"}, http.StatusBadRequest},
		{"invalid account id", fmt.Errorf("%w: empty", domain.ErrInvalidAccountID), http.StatusBadRequest},
		{"negative balance", domain.ErrNegativeBalance, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"insufficient funds", &domain.InsufficientFundsError{ID: "1"}, http.StatusBadRequest},
		{"missing field", dto.ErrMissingField, http.StatusBadRequest},
		{"inconsistent ledger", usecase.ErrInconsistentLedger, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteDomainErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, "failed", errors.New("connection refused to 10.0.0.1"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "failed" || resp.Message != "internal error" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}

func TestWriteDomainErrorKeepsDomainMessage(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, "failed to transfer", &domain.InsufficientFundsError{ID: "Id-1"})

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	want := "The account Id-1 has insufficient funds. The operation will not be performed."
	if rr.Code != http.StatusBadRequest || resp.Message != want {
		t.Fatalf("unexpected response %d: %+v", rr.Code, resp)
	}
}
