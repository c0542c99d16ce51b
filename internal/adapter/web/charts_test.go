package web

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/stretchr/testify/assert"
)

func TestFXSummary(t *testing.T) {
	tests := []struct {
		name     string
		overview dashboard.Overview
		want     string
	}{
		{
			name:     "named pair",
			overview: dashboard.Overview{HomeCurrency: "AUD", ForeignCurrency: "USD", FXRate: domain.NewRate(decimal.RequireFromString("1.5234"))},
			want:     "FX 1 USD = 1.5234 AUD",
		},
		{
			name:     "no foreign currency configured",
			overview: dashboard.Overview{HomeCurrency: "AUD", FXRate: domain.NewRate(decimal.RequireFromString("1.5"))},
			want:     "FX 1.5000",
		},
		{
			name:     "unavailable",
			overview: dashboard.Overview{HomeCurrency: "AUD", ForeignCurrency: "USD"},
			want:     "FX unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fxSummary(&tt.overview))
		})
	}
}
