// Package networth combines balances into a single net-worth figure.
package networth

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Breakdown represents the calculated net worth and the property figures behind it
type Breakdown struct {
	Cash           decimal.Decimal
	Equity         decimal.Decimal // property value minus loan, may be negative
	EquityPercent  decimal.Decimal // equity as a percentage of property value
	UserEquity     decimal.Decimal // equity times ownership fraction
	SuperBalance   decimal.Decimal
	PortfolioTotal decimal.Decimal
	Total          decimal.Decimal
}

// Aggregate returns cash + user's property equity + super + portfolio value
func Aggregate(cash decimal.Decimal, property domain.PropertyPosition, superBalance, portfolioTotal decimal.Decimal) decimal.Decimal {
	return Calculate(cash, property, superBalance, portfolioTotal).Total
}

// Calculate builds the full net-worth breakdown.
// Logic:
//   - Equity: market value - loan balance
//   - UserEquity: Equity × ownership fraction
//   - Total: cash + UserEquity + super + portfolio
func Calculate(cash decimal.Decimal, property domain.PropertyPosition, superBalance, portfolioTotal decimal.Decimal) Breakdown {
	equity := property.Equity()
	userEquity := equity.Mul(property.OwnershipFraction)

	equityPercent := decimal.Zero
	if !property.MarketValue.IsZero() {
		equityPercent = equity.Div(property.MarketValue).Mul(hundred)
	}

	return Breakdown{
		Cash:           cash,
		Equity:         equity,
		EquityPercent:  equityPercent,
		UserEquity:     userEquity,
		SuperBalance:   superBalance,
		PortfolioTotal: portfolioTotal,
		Total:          cash.Add(userEquity).Add(superBalance).Add(portfolioTotal),
	}
}

// GoalProgress returns net worth as a fraction of goal, clamped to [0, 1].
// A non-positive goal yields zero.
func GoalProgress(netWorth, goal decimal.Decimal) decimal.Decimal {
	if !goal.IsPositive() {
		return decimal.Zero
	}
	progress := netWorth.Div(goal)
	return decimal.Min(decimal.Max(progress, decimal.Zero), decimal.NewFromInt(1))
}
