package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// IntervalHint selects the bar size a quote provider should read the latest price from
type IntervalHint string

const (
	IntervalIntraday IntervalHint = "INTRADAY"
	IntervalDaily    IntervalHint = "DAILY"
)

// Quote is the most recent price of a symbol. It is fetched per session and never persisted.
type Quote struct {
	Symbol   string
	Price    decimal.Decimal
	Currency string
	AsOf     time.Time
}

// Usable reports whether the quote carries a strictly positive price
func (q Quote) Usable() bool {
	return q.Price.IsPositive()
}

// Rate is a same-day FX spot rate: home-currency units per one foreign-currency unit
type Rate struct {
	Value     decimal.Decimal
	Available bool
}

// NewRate builds an available rate
func NewRate(value decimal.Decimal) Rate {
	return Rate{Value: value, Available: value.IsPositive()}
}

// UnavailableRate is the rate used when the FX quote cannot be fetched
var UnavailableRate = Rate{}

// RateFromQuote turns an FX pair quote into a Rate
func RateFromQuote(q Quote, ok bool) Rate {
	if !ok || !q.Usable() {
		return UnavailableRate
	}
	return NewRate(q.Price)
}

// QuoteProvider returns the latest quote for a symbol.
// Implementations must not block indefinitely and report any failure
// (unknown symbol, network error, empty series) as ok == false.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string, hint IntervalHint) (Quote, bool)
}

// QuoteFunc looks up an already fetched quote by symbol
type QuoteFunc func(symbol string) (Quote, bool)
