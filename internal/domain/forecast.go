package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ContributionFrequency is the cadence of periodic contributions to a forecast track
type ContributionFrequency string

const (
	FrequencyNone    ContributionFrequency = "NONE"
	FrequencyWeekly  ContributionFrequency = "WEEKLY"
	FrequencyMonthly ContributionFrequency = "MONTHLY"
	FrequencyYearly  ContributionFrequency = "YEARLY"
)

const (
	MinHorizonYears = 1
	MaxHorizonYears = 30
)

// MaxAnnualGrowthRate is the upper bound accepted for any track's growth rate
var MaxAnnualGrowthRate = decimal.RequireFromString("0.20")

// AnnualMultiplier converts a per-period contribution into an annual one
func (f ContributionFrequency) AnnualMultiplier() int64 {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyMonthly:
		return 12
	case FrequencyYearly:
		return 1
	default:
		return 0
	}
}

// UnmarshalText accepts any letter case ("Monthly", "monthly", "MONTHLY")
func (f *ContributionFrequency) UnmarshalText(text []byte) error {
	v := ContributionFrequency(strings.ToUpper(strings.TrimSpace(string(text))))
	if v == "" {
		v = FrequencyNone
	}
	switch v {
	case FrequencyNone, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		*f = v
		return nil
	}
	return fmt.Errorf("invalid contribution frequency %q", string(text))
}

// TrackAssumption holds the growth rate and contribution of one forecast track
type TrackAssumption struct {
	AnnualGrowthRate      decimal.Decimal `json:"annual_growth_rate"` // 0.05 means 5%
	ContributionPerPeriod decimal.Decimal `json:"contribution_per_period"`
}

// ForecastAssumptions drive the year-by-year projection
type ForecastAssumptions struct {
	Property              TrackAssumption       `json:"property"`
	Portfolio             TrackAssumption       `json:"portfolio"`
	Super                 TrackAssumption       `json:"super"`
	ContributionFrequency ContributionFrequency `json:"contribution_frequency"`
	HorizonYears          int                   `json:"horizon_years"`
	// AnnualLoanRepayment reduces the property loan each projected year.
	// Zero keeps the loan constant over the whole horizon.
	AnnualLoanRepayment decimal.Decimal `json:"annual_loan_repayment"`
}

// Validate ensures the assumptions are within their accepted ranges
func (a ForecastAssumptions) Validate() error {
	tracks := []struct {
		name  string
		track TrackAssumption
	}{
		{"property", a.Property},
		{"portfolio", a.Portfolio},
		{"super", a.Super},
	}
	for _, t := range tracks {
		if t.track.AnnualGrowthRate.IsNegative() || t.track.AnnualGrowthRate.GreaterThan(MaxAnnualGrowthRate) {
			return fmt.Errorf("%s growth rate must be between 0 and %s", t.name, MaxAnnualGrowthRate)
		}
		if t.track.ContributionPerPeriod.IsNegative() {
			return fmt.Errorf("%s contribution must be non-negative", t.name)
		}
	}
	if a.ContributionFrequency.AnnualMultiplier() == 0 && a.ContributionFrequency != FrequencyNone && a.ContributionFrequency != "" {
		return fmt.Errorf("invalid contribution frequency %q", a.ContributionFrequency)
	}
	if a.HorizonYears < MinHorizonYears || a.HorizonYears > MaxHorizonYears {
		return fmt.Errorf("horizon must be between %d and %d years", MinHorizonYears, MaxHorizonYears)
	}
	if a.AnnualLoanRepayment.IsNegative() {
		return errors.New("annual loan repayment must be non-negative")
	}
	return nil
}

// Clamp returns a copy of the assumptions forced into their accepted ranges.
// Unknown frequencies become NONE.
func (a ForecastAssumptions) Clamp() ForecastAssumptions {
	a.Property = a.Property.clamp()
	a.Portfolio = a.Portfolio.clamp()
	a.Super = a.Super.clamp()
	if a.ContributionFrequency.AnnualMultiplier() == 0 {
		a.ContributionFrequency = FrequencyNone
	}
	if a.HorizonYears < MinHorizonYears {
		a.HorizonYears = MinHorizonYears
	}
	if a.HorizonYears > MaxHorizonYears {
		a.HorizonYears = MaxHorizonYears
	}
	a.AnnualLoanRepayment = decimal.Max(a.AnnualLoanRepayment, decimal.Zero)
	return a
}

func (t TrackAssumption) clamp() TrackAssumption {
	t.AnnualGrowthRate = decimal.Min(decimal.Max(t.AnnualGrowthRate, decimal.Zero), MaxAnnualGrowthRate)
	t.ContributionPerPeriod = decimal.Max(t.ContributionPerPeriod, decimal.Zero)
	return t
}
