package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/paytransfer/internal/adapter/http/dto"
	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	logger    zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, logger: logger}
}

// Create creates a new account. A created account has no response body.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	if _, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput()); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "Invalid account ID")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
