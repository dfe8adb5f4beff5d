package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice reads a currency formatted price such as "₱159.00" or "P 1,299".
// Everything but digits and '.' is dropped; empty or unparseable input is zero.
func ParsePrice(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatPrice renders an amount with two decimals behind the currency symbol.
func FormatPrice(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
