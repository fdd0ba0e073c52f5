package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/adapter/http/dto"
	"github.com/iho/paytransfer/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", &domain.AccountNotFoundError{AccountID: 1}, http.StatusNotFound},
		{"transfer not found", &domain.TransferNotFoundError{TransferID: 1}, http.StatusNotFound},
		{"insufficient balance", &domain.InsufficientBalanceError{AccountID: 1, Balance: decimal.Zero, Requested: decimal.NewFromInt(1)}, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"already exists", &domain.AccountAlreadyExistsError{AccountID: 1}, http.StatusConflict},
		{"validation", &dto.ValidationError{Messages: []string{"Amount is required"}}, http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", domain.ErrAccountNotFound), http.StatusNotFound},
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

	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

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

func TestWriteError_IncludesPath(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/abc", nil)

	WriteError(rr, req, http.StatusBadRequest, "Invalid account ID")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	resp := decodeError(t, rr)
	if resp.Error != "Invalid account ID" || resp.Path != "/api/v1/accounts/abc" || resp.Timestamp == "" {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestWriteDomainError_HidesUnexpectedDetails(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)

	writeDomainError(rr, req, logger, errors.New("connection refused"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	resp := decodeError(t, rr)
	if resp.Error != UnexpectedErrorMessage {
		t.Fatalf("expected generic message, got %q", resp.Error)
	}

	if !strings.Contains(logs.String(), "connection refused") {
		t.Fatalf("expected underlying error to be logged, got %s", logs.String())
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{raw: "111", want: 111, wantOK: true},
		{raw: "0", want: 0, wantOK: true},
		{raw: "-5", want: -5, wantOK: true},
		{raw: "9223372036854775807", want: 9223372036854775807, wantOK: true},
		{raw: "9223372036854775808"},
		{raw: "abc"},
		{raw: "1.5"},
		{raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/x", nil), "id", tt.raw)

			got, ok := parseIDParam(req, "id")
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("parseIDParam(%q) = %d, %v", tt.raw, got, ok)
			}
		})
	}
}
