// Package fx converts foreign-currency amounts into the home currency.
package fx

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
)

// Convert returns amount expressed in the home currency.
// An unavailable rate yields zero so the dashboard keeps rendering while the FX feed is down.
func Convert(amount decimal.Decimal, rate domain.Rate) decimal.Decimal {
	if !rate.Available {
		return decimal.Zero
	}
	return amount.Mul(rate.Value)
}
