package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount without trailing zeros.
// When precision is positive the amount is first rounded half away from zero.
// Example: 12.50 returns "12.5", 8.0000 returns "8"
// Example: 1.23456 with precision 4 returns "1.2346"
func FormatAmount(amount decimal.Decimal, precision int) string {
	if precision > 0 {
		amount = amount.Round(int32(precision))
	}
	return amount.String()
}
