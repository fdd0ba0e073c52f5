package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/paytransfer/internal/adapter/http/dto"
	"github.com/iho/paytransfer/internal/domain"
	"github.com/iho/paytransfer/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id int64) (*domain.Transfer, error)
	ListTransfers(ctx context.Context) ([]*domain.Transfer, error)
}

// TransferHandler handles transaction-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	logger     zerolog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, logger zerolog.Logger) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, logger: logger}
}

// Create executes a transfer between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	transfer, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionCreatedFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transfer))
}

// List returns every recorded transfer in id order.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.transferUC.ListTransfers(r.Context())
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transfers))
}
