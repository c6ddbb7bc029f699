// Package money normalizes and aggregates monetary amounts. Amounts are
// carried across the API as decimal strings with exactly two fraction
// digits; arithmetic happens on decimals so repeated formatting never
// drifts the way float64 would.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a number greater than zero")

// Normalize parses a raw client amount and returns its absolute value
// formatted with two fraction digits. Non-numeric input and zero are
// rejected; a negative sign is stripped, not rejected.
func Normalize(raw string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidAmount
	}

	d = d.Abs()
	if d.IsZero() {
		return "", ErrInvalidAmount
	}

	return d.StringFixed(2), nil
}

// Value parses a stored amount. Stored amounts are produced by Normalize,
// so a parse failure here means the partition content is corrupt.
func Value(stored string) (decimal.Decimal, error) {
	return decimal.NewFromString(stored)
}

// Format renders a decimal with two fraction digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
