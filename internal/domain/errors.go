package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")

	// Transfer errors
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransferNotFound    = errors.New("transfer not found")
)

// ErrorKind classifies an error for observers and transport layers.
type ErrorKind string

const (
	KindAccountAlreadyExists ErrorKind = "account_already_exists"
	KindAccountNotFound      ErrorKind = "account_not_found"
	KindTransferNotFound     ErrorKind = "transfer_not_found"
	KindInvalidAmount        ErrorKind = "invalid_amount"
	KindInsufficientBalance  ErrorKind = "insufficient_balance"
	KindUnexpected           ErrorKind = "unexpected"
)

// KindOf maps err onto the error taxonomy. Anything not recognised is
// unexpected; a nil error has no kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAccountAlreadyExists):
		return KindAccountAlreadyExists
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrTransferNotFound):
		return KindTransferNotFound
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	default:
		return KindUnexpected
	}
}

// AccountNotFoundError identifies the missing account.
type AccountNotFoundError struct {
	AccountID int64
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("Account with ID %d not found", e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// AccountAlreadyExistsError identifies the duplicated account.
type AccountAlreadyExistsError struct {
	AccountID int64
}

func (e *AccountAlreadyExistsError) Error() string {
	return fmt.Sprintf("Account with ID %d already exists", e.AccountID)
}

func (e *AccountAlreadyExistsError) Unwrap() error { return ErrAccountAlreadyExists }

// TransferNotFoundError identifies the missing transfer.
type TransferNotFoundError struct {
	TransferID int64
}

func (e *TransferNotFoundError) Error() string {
	return fmt.Sprintf("Transaction with ID %d not found", e.TransferID)
}

func (e *TransferNotFoundError) Unwrap() error { return ErrTransferNotFound }

// InsufficientBalanceError carries the balance observed under lock and the
// amount that was requested.
type InsufficientBalanceError struct {
	AccountID int64
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Account %d has insufficient balance. Current balance: %s, Requested amount: %s",
		e.AccountID, FormatMoney(e.Balance), FormatMoney(e.Requested))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
