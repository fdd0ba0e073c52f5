package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateAmount validates a transfer amount: within MaxIntegerDigits, strictly
// positive and no more fractional digits than MoneyScale.
func ValidateAmount(amount decimal.Decimal) error {
	if !FitsPrecision(amount) {
		return fmt.Errorf("%w: amount exceeds %d integer digits", ErrInvalidAmount, MaxIntegerDigits)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	if !FitsScale(amount) {
		return fmt.Errorf("%w: amount %s exceeds %d decimal places", ErrInvalidAmount, amount.String(), MoneyScale)
	}

	return nil
}

// ValidateTransfer checks a proposed transfer before any account is touched.
func ValidateTransfer(sourceID, destinationID int64, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if sourceID == destinationID {
		return fmt.Errorf("%w: source and destination accounts must differ", ErrInvalidAmount)
	}

	return nil
}

// ValidateInitialBalance validates the opening balance of a new account.
func ValidateInitialBalance(balance decimal.Decimal) error {
	if !FitsPrecision(balance) {
		return fmt.Errorf("%w: initial balance exceeds %d integer digits", ErrInvalidAmount, MaxIntegerDigits)
	}

	if balance.IsNegative() {
		return fmt.Errorf("%w: initial balance must be non-negative", ErrInvalidAmount)
	}

	if !FitsScale(balance) {
		return fmt.Errorf("%w: initial balance %s exceeds %d decimal places", ErrInvalidAmount, balance.String(), MoneyScale)
	}

	return nil
}

// ValidateCredit checks that crediting amount keeps balance within
// MaxIntegerDigits.
func ValidateCredit(account *Account, amount decimal.Decimal) error {
	if !FitsPrecision(account.ApplyCredit(amount)) {
		return fmt.Errorf("%w: balance of account %d would exceed %d integer digits", ErrInvalidAmount, account.ID, MaxIntegerDigits)
	}

	return nil
}
