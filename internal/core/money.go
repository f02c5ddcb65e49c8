package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a form value to a decimal amount. Both "12.34" and
// "12,34" are accepted. The sign is not checked.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals and a currency symbol.
func FormatAmount(d decimal.Decimal, currency string) string {
	return currency + d.StringFixed(2)
}
