package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is the immutable record of a completed money movement.
type Transfer struct {
	ID                   int64
	SourceAccountID      int64
	DestinationAccountID int64
	Amount               decimal.Decimal
	Timestamp            time.Time
}

// Validate validates transfer request.
func (t *Transfer) Validate() error {
	return ValidateTransfer(t.SourceAccountID, t.DestinationAccountID, t.Amount)
}

// LockOrder returns the two account ids in ascending order. Every caller that
// locks both accounts must acquire them in this order.
func (t *Transfer) LockOrder() (low, high int64) {
	if t.SourceAccountID < t.DestinationAccountID {
		return t.SourceAccountID, t.DestinationAccountID
	}

	return t.DestinationAccountID, t.SourceAccountID
}
