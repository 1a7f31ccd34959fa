// Package money converts user-entered decimal amounts to integer cents and
// formats cents for display.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrAmountOutOfRange is returned when the cents value does not fit in int64.
var ErrAmountOutOfRange = errors.New("amount out of range")

var hundred = decimal.NewFromInt(100)

const (
	// int64 cents never need more than 19 integer digits
	maxExponent = 18
	// significant digits accepted in an amount
	maxDigits = 38
)

// ToCents converts a decimal currency value to cents, rounding half away from zero.
// The arithmetic is exact, so 10.555 becomes 1056 rather than 1055.
//
// Examples:
//
//	ToCents(10.50)  -> 1050
//	ToCents(10.555) -> 1056
//	ToCents(-0.005) -> -1
//
// Exponent and precision are checked before any arithmetic: rescaling cost grows with 10^|exponent|.
func ToCents(amount decimal.Decimal) (int64, error) {
	if amount.IsZero() {
		return 0, nil
	}
	exp := int(amount.Exponent())
	if exp > maxExponent {
		return 0, ErrAmountOutOfRange
	}
	digits := amount.NumDigits()
	if exp < -maxExponent && digits+exp < -2 {
		// |amount| < 0.001, so it rounds to zero cents
		return 0, nil
	}
	if digits > maxDigits {
		return 0, ErrAmountOutOfRange
	}

	cents := amount.Mul(hundred).Round(0)
	bi := cents.BigInt()
	if !bi.IsInt64() {
		return 0, ErrAmountOutOfRange
	}
	return bi.Int64(), nil
}

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders cents as Brazilian reais, e.g. 1050 -> "R$ 10,50".
// Display only; callers keep the integer value.
func FormatBRL(cents int64) string {
	sign := ""
	// avoid negating math.MinInt64
	reais, frac := cents/100, cents%100
	if cents < 0 {
		sign = "-"
		reais, frac = -reais, -frac
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, brPrinter.Sprintf("%d", reais), frac)
}
