package web

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"thousands separator", "101000", "AUD", "$101,000.00"},
		{"rounds to cents", "1234.567", "AUD", "$1,234.57"},
		{"zero", "0", "AUD", "$0.00"},
		{"negative", "-250.5", "AUD", "-$250.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "10.1%", FormatPercent(decimal.RequireFromString("0.101")))
	assert.Equal(t, "100.0%", FormatPercent(decimal.NewFromInt(1)))
	assert.Equal(t, "0.0%", FormatPercent(decimal.Zero))
}
