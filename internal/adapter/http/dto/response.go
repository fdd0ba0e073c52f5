package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/domain"
)

// TransactionCreatedMessage is returned with every successful transfer.
const TransactionCreatedMessage = "Transaction processed successfully"

// LocalTimestampLayout renders transfer timestamps without a zone.
const LocalTimestampLayout = "2006-01-02T15:04:05.999999"

// Money renders a decimal as a JSON number with exactly five fractional digits.
func Money(d decimal.Decimal) json.Number {
	return json.Number(domain.FormatMoney(d))
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountID int64       `json:"account_id"`
	Balance   json.Number `json:"balance"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountID: a.ID,
		Balance:   Money(a.Balance),
	}
}

// TransactionResponse represents a recorded transfer in API responses.
type TransactionResponse struct {
	ID                   int64       `json:"id"`
	SourceAccountID      int64       `json:"source_account_id"`
	DestinationAccountID int64       `json:"destination_account_id"`
	Amount               json.Number `json:"amount"`
	Timestamp            string      `json:"timestamp"`
}

// TransactionFromDomain converts domain transfer to response.
func TransactionFromDomain(t *domain.Transfer) *TransactionResponse {
	return &TransactionResponse{
		ID:                   t.ID,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Amount:               Money(t.Amount),
		Timestamp:            t.Timestamp.UTC().Format(LocalTimestampLayout),
	}
}

// TransactionsFromDomain converts domain transfers to responses.
func TransactionsFromDomain(transfers []*domain.Transfer) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransactionCreatedResponse acknowledges a successful transfer.
type TransactionCreatedResponse struct {
	TransactionID int64  `json:"transaction_id"`
	Message       string `json:"message"`
	Timestamp     string `json:"timestamp"`
}

// TransactionCreatedFromDomain builds the acknowledgement for t.
func TransactionCreatedFromDomain(t *domain.Transfer) *TransactionCreatedResponse {
	return &TransactionCreatedResponse{
		TransactionID: t.ID,
		Message:       TransactionCreatedMessage,
		Timestamp:     t.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// NewErrorResponse stamps an error with the current UTC time.
func NewErrorResponse(message, path string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Path:      path,
	}
}
