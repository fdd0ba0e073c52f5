package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every balance and amount carries.
const MoneyScale int32 = 5

// MaxIntegerDigits is the number of integer digits a balance or amount may
// carry. Together with MoneyScale it matches a NUMERIC(19,5) column.
const MaxIntegerDigits int32 = 19 - MoneyScale

// maxInputScale caps the fractional digits an input may spell out, trailing
// zeros included.
const maxInputScale int32 = 3 * MoneyScale

// Normalize rescales d to MoneyScale. Callers only pass values that already fit
// the scale, so no digits are lost.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FitsScale reports whether d can be represented with MoneyScale fractional digits.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// FitsPrecision reports whether |d| < 10^MaxIntegerDigits and d spells out at
// most maxInputScale fractional digits. It reads only the coefficient length
// and the exponent, so it never rescales d and must run before anything that does.
func FitsPrecision(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxInputScale || exp > MaxIntegerDigits {
		return false
	}

	if d.IsZero() {
		return true
	}

	return int32(d.NumDigits())+exp <= MaxIntegerDigits
}

// FormatMoney renders d with exactly MoneyScale fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// DescribeAmount renders caller input for logs. Values outside FitsPrecision
// are shown as coefficient and exponent instead of being expanded.
func DescribeAmount(d decimal.Decimal) string {
	if FitsPrecision(d) {
		return d.String()
	}

	return fmt.Sprintf("%se%d", d.Coefficient().String(), d.Exponent())
}
