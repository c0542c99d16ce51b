// Package forecast projects net worth forward under compound growth.
package forecast

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
)

// Point is one projected year
type Point struct {
	Year           int
	PropertyValue  decimal.Decimal
	LoanBalance    decimal.Decimal
	PropertyEquity decimal.Decimal // user's share of (property value - loan)
	PortfolioValue decimal.Decimal
	SuperValue     decimal.Decimal
	Total          decimal.Decimal
}

// Project returns year 0..HorizonYears of the projection.
// Logic, per track (property value, portfolio, super):
//   - value[0] = current balance
//   - value[i] = value[i-1] × (1 + rate) + per-period contribution × frequency multiplier
//
// The loan only decreases by AnnualLoanRepayment (zero keeps it constant) and cash is held
// constant. Assumptions are clamped into range first, so Project never fails.
func Project(property domain.PropertyPosition, superBalance, portfolioTotal, cash decimal.Decimal, assumptions domain.ForecastAssumptions) []Point {
	a := assumptions.Clamp()
	multiplier := decimal.NewFromInt(a.ContributionFrequency.AnnualMultiplier())

	propertyTrack := newTrack(property.MarketValue, a.Property, multiplier)
	portfolioTrack := newTrack(portfolioTotal, a.Portfolio, multiplier)
	superTrack := newTrack(superBalance, a.Super, multiplier)
	loan := property.LoanBalance

	points := make([]Point, 0, a.HorizonYears+1)
	for year := 0; year <= a.HorizonYears; year++ {
		if year > 0 {
			propertyTrack.step()
			portfolioTrack.step()
			superTrack.step()
			loan = decimal.Max(loan.Sub(a.AnnualLoanRepayment), decimal.Zero)
		}

		equity := propertyTrack.value.Sub(loan).Mul(property.OwnershipFraction)
		points = append(points, Point{
			Year:           year,
			PropertyValue:  propertyTrack.value,
			LoanBalance:    loan,
			PropertyEquity: equity,
			PortfolioValue: portfolioTrack.value,
			SuperValue:     superTrack.value,
			Total:          equity.Add(portfolioTrack.value).Add(superTrack.value).Add(cash),
		})
	}
	return points
}

// track compounds one balance
type track struct {
	value              decimal.Decimal
	growth             decimal.Decimal // 1 + rate
	annualContribution decimal.Decimal
}

func newTrack(start decimal.Decimal, assumption domain.TrackAssumption, multiplier decimal.Decimal) *track {
	return &track{
		value:              start,
		growth:             decimal.NewFromInt(1).Add(assumption.AnnualGrowthRate),
		annualContribution: assumption.ContributionPerPeriod.Mul(multiplier),
	}
}

func (t *track) step() {
	t.value = t.value.Mul(t.growth).Add(t.annualContribution)
}
