// Package valuation prices holdings in the home currency.
package valuation

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/fx"
)

// AssetValue is the valuation of a single holding
type AssetValue struct {
	Symbol        string
	Name          string
	Quantity      decimal.Decimal
	UnitPriceHome decimal.Decimal
	ValueHome     decimal.Decimal
	// Available is false when the quote (or the FX rate for a foreign holding) was missing
	Available bool
}

// Valuation is the per-asset breakdown and total value of a portfolio
type Valuation struct {
	Assets []AssetValue
	Total  decimal.Decimal
}

// ValueHoldings prices every holding with the supplied quotes and FX rate.
// Logic:
//   - FOREIGN: unit price = quote price × fx rate
//   - HOME: unit price = quote price
//   - value = quantity × unit price
//   - missing quote: unit price and value are zero
//
// It never fails; missing data degrades the affected holdings to zero.
func ValueHoldings(holdings []domain.Holding, quoteFn domain.QuoteFunc, fxRate domain.Rate) Valuation {
	result := Valuation{
		Assets: make([]AssetValue, 0, len(holdings)),
		Total:  decimal.Zero,
	}

	for _, h := range holdings {
		asset := AssetValue{
			Symbol:        h.Symbol,
			Name:          h.Name,
			Quantity:      h.Quantity,
			UnitPriceHome: decimal.Zero,
			ValueHome:     decimal.Zero,
		}

		quote, ok := lookup(quoteFn, h.Symbol)
		if ok && quote.Usable() {
			asset.UnitPriceHome = quote.Price
			asset.Available = true
			if h.IsForeign() {
				asset.UnitPriceHome = fx.Convert(quote.Price, fxRate)
				asset.Available = fxRate.Available
			}
			asset.ValueHome = h.Quantity.Mul(asset.UnitPriceHome)
		}

		result.Total = result.Total.Add(asset.ValueHome)
		result.Assets = append(result.Assets, asset)
	}

	return result
}

func lookup(quoteFn domain.QuoteFunc, symbol string) (domain.Quote, bool) {
	if quoteFn == nil {
		return domain.Quote{}, false
	}
	return quoteFn(symbol)
}
