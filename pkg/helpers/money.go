package helpers

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be a non-negative value with at most two decimals")

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ParseMinorUnits converts a decimal amount such as "149.99" to 14999.
func ParseMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) || cents.GreaterThan(maxMinor) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// FormatMinorUnits renders 14999 as "149.99".
func FormatMinorUnits(v int64) string {
	return decimal.New(v, -2).StringFixed(2)
}

// FormatMoney prefixes the currency code: "USD 149.99".
func FormatMoney(v int64, currency string) string {
	if currency == "" {
		return FormatMinorUnits(v)
	}
	return currency + " " + FormatMinorUnits(v)
}
