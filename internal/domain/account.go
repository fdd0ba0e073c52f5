package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a monetary account holding a non-negative balance.
type Account struct {
	ID      int64
	Balance decimal.Decimal
}

// CanDebit reports whether the account holds at least amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return Normalize(a.Balance.Sub(amount))
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return Normalize(a.Balance.Add(amount))
}

// Clone returns a copy that shares no state with a.
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}
