package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultOwnershipFraction is the share of the investment property owned by the user
var DefaultOwnershipFraction = decimal.RequireFromString("0.32")

// PropertyPosition describes a part-owned, mortgaged property.
// LoanBalance may exceed MarketValue (negative equity).
type PropertyPosition struct {
	MarketValue       decimal.Decimal `json:"market_value"`
	LoanBalance       decimal.Decimal `json:"loan_balance"`
	OwnershipFraction decimal.Decimal `json:"ownership_fraction"`
}

// Equity is market value minus the outstanding loan
func (p PropertyPosition) Equity() decimal.Decimal {
	return p.MarketValue.Sub(p.LoanBalance)
}

// Validate ensures the property position adheres to domain rules
func (p PropertyPosition) Validate() error {
	if p.MarketValue.IsNegative() {
		return errors.New("property market value must be non-negative")
	}
	if p.LoanBalance.IsNegative() {
		return errors.New("property loan balance must be non-negative")
	}
	if p.OwnershipFraction.IsNegative() || p.OwnershipFraction.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("ownership fraction must be between 0 and 1")
	}
	return nil
}
