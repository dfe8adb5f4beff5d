package util

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "peso sign", raw: "₱159", want: "159"},
		{name: "peso sign with decimals", raw: "₱79.50", want: "79.5"},
		{name: "letter prefix and spaces", raw: "P 1,299.00", want: "1299"},
		{name: "plain number", raw: "45", want: "45"},
		{name: "empty", raw: "", want: "0"},
		{name: "symbol only", raw: "₱", want: "0"},
		{name: "garbage", raw: "free", want: "0"},
		{name: "two decimal points", raw: "1.2.3", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₱159.00", FormatPrice("₱", decimal.NewFromInt(159)))
	assert.Equal(t, "₱447.50", FormatPrice("₱", decimal.RequireFromString("447.5")))
	assert.Equal(t, "$0.00", FormatPrice("$", decimal.Zero))
}
