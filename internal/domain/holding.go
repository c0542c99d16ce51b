package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// QuoteCurrency tells whether a holding is quoted in the home currency or needs FX conversion
type QuoteCurrency string

const (
	QuoteCurrencyHome    QuoteCurrency = "HOME"
	QuoteCurrencyForeign QuoteCurrency = "FOREIGN"
)

// Holding is a position in a quoted instrument (share, ETF or crypto)
type Holding struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	QuoteCurrency QuoteCurrency   `json:"quote_currency"`
	// Fractional is false for instruments that only trade in whole units
	Fractional bool `json:"fractional"`
}

// IsForeign reports whether the holding's quote must be converted to the home currency
func (h Holding) IsForeign() bool {
	return h.QuoteCurrency == QuoteCurrencyForeign
}

// IntervalHint returns the quote granularity used for this holding.
// Foreign listings trade outside home-market hours, so their latest intraday bar is used.
func (h Holding) IntervalHint() IntervalHint {
	if h.IsForeign() {
		return IntervalIntraday
	}
	return IntervalDaily
}

// Validate ensures the holding adheres to domain rules
func (h Holding) Validate() error {
	if h.Symbol == "" {
		return errors.New("holding symbol cannot be empty")
	}
	if h.QuoteCurrency != QuoteCurrencyHome && h.QuoteCurrency != QuoteCurrencyForeign {
		return fmt.Errorf("holding %s: invalid quote currency %q", h.Symbol, h.QuoteCurrency)
	}
	if h.Quantity.IsNegative() {
		return fmt.Errorf("holding %s: quantity must be non-negative", h.Symbol)
	}
	if !h.Fractional && !h.Quantity.Equal(h.Quantity.Truncate(0)) {
		return fmt.Errorf("holding %s: quantity must be a whole number", h.Symbol)
	}
	return nil
}
