package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/paytransfer/internal/usecase"
)

// ValidationError lists every missing or malformed request field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Messages, "; ")
}

func validationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}

	return &ValidationError{Messages: messages}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	AccountID      *int64           `json:"account_id"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
}

// UnmarshalJSON also accepts accountId and initialBalance. The snake_case
// names win when both are sent.
func (r *CreateAccountRequest) UnmarshalJSON(data []byte) error {
	type fields CreateAccountRequest
	var aux struct {
		fields
		CamelAccountID      *int64           `json:"accountId"`
		CamelInitialBalance *decimal.Decimal `json:"initialBalance"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = CreateAccountRequest(aux.fields)
	if r.AccountID == nil {
		r.AccountID = aux.CamelAccountID
	}
	if r.InitialBalance == nil {
		r.InitialBalance = aux.CamelInitialBalance
	}

	return nil
}

// Validate checks that required fields are present.
func (r *CreateAccountRequest) Validate() error {
	var messages []string
	if r.AccountID == nil {
		messages = append(messages, "Account ID is required")
	}
	if r.InitialBalance == nil {
		messages = append(messages, "Initial balance is required")
	}

	return validationError(messages)
}

// ToUseCaseInput converts to use case input. Call Validate first.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		AccountID:      *r.AccountID,
		InitialBalance: *r.InitialBalance,
	}
}

// CreateTransactionRequest represents a request to transfer funds.
type CreateTransactionRequest struct {
	SourceAccountID      *int64           `json:"source_account_id"`
	DestinationAccountID *int64           `json:"destination_account_id"`
	Amount               *decimal.Decimal `json:"amount"`
}

// Validate checks that required fields are present.
func (r *CreateTransactionRequest) Validate() error {
	var messages []string
	if r.SourceAccountID == nil {
		messages = append(messages, "Source account ID is required")
	}
	if r.DestinationAccountID == nil {
		messages = append(messages, "Destination account ID is required")
	}
	if r.Amount == nil {
		messages = append(messages, "Amount is required")
	}

	return validationError(messages)
}

// ToUseCaseInput converts to use case input. Call Validate first.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		SourceAccountID:      *r.SourceAccountID,
		DestinationAccountID: *r.DestinationAccountID,
		Amount:               *r.Amount,
	}
}
