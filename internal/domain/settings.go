package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Settings is the complete set of user inputs, loaded and saved wholesale
type Settings struct {
	Cash            decimal.Decimal     `json:"cash"`
	Property        PropertyPosition    `json:"property"`
	SuperBalance    decimal.Decimal     `json:"super_balance"`
	Holdings        []Holding           `json:"holdings"`
	Goal            decimal.Decimal     `json:"goal"`
	HomeCurrency    string              `json:"home_currency"`
	ForeignCurrency string              `json:"foreign_currency"`
	FXSymbol        string              `json:"fx_symbol"`
	Forecast        ForecastAssumptions `json:"forecast"`
}

// DefaultSettings returns the built-in inputs used when nothing has been saved yet
// or the saved settings cannot be read.
func DefaultSettings() *Settings {
	d := decimal.RequireFromString
	return &Settings{
		Cash: d("21081"),
		Property: PropertyPosition{
			MarketValue:       d("605000"),
			LoanBalance:       d("541735"),
			OwnershipFraction: DefaultOwnershipFraction,
		},
		SuperBalance: d("68000"),
		Holdings: []Holding{
			{Symbol: "INR.AX", Name: "Ioneer Ltd", Quantity: d("4854"), QuoteCurrency: QuoteCurrencyHome},
			{Symbol: "IVV.AX", Name: "iShares S&P 500 ETF (ASX)", Quantity: d("88"), QuoteCurrency: QuoteCurrencyHome},
			{Symbol: "VAS.AX", Name: "Vanguard Australian Shares ETF", Quantity: d("65"), QuoteCurrency: QuoteCurrencyHome},
			{Symbol: "BABA", Name: "Alibaba Group (US)", Quantity: d("9.39"), QuoteCurrency: QuoteCurrencyForeign, Fractional: true},
			{Symbol: "XPEV", Name: "XPeng Inc. (US)", Quantity: d("58.07"), QuoteCurrency: QuoteCurrencyForeign, Fractional: true},
			{Symbol: "AUR", Name: "Aurora Innovation (NASDAQ)", Quantity: d("142.20"), QuoteCurrency: QuoteCurrencyForeign, Fractional: true},
			{Symbol: "NVDA", Name: "NVIDIA Corp. (US)", Quantity: d("4.88"), QuoteCurrency: QuoteCurrencyForeign, Fractional: true},
			{Symbol: "BTC-USD", Name: "Bitcoin", Quantity: d("0.018302"), QuoteCurrency: QuoteCurrencyForeign, Fractional: true},
		},
		Goal:            d("1000000"),
		HomeCurrency:    "AUD",
		ForeignCurrency: "USD",
		FXSymbol:        "USDAUD=X",
		Forecast: ForecastAssumptions{
			Property:              TrackAssumption{AnnualGrowthRate: d("0.05"), ContributionPerPeriod: decimal.Zero},
			Portfolio:             TrackAssumption{AnnualGrowthRate: d("0.07"), ContributionPerPeriod: decimal.Zero},
			Super:                 TrackAssumption{AnnualGrowthRate: d("0.04"), ContributionPerPeriod: decimal.Zero},
			ContributionFrequency: FrequencyNone,
			HorizonYears:          5,
			AnnualLoanRepayment:   decimal.Zero,
		},
	}
}

// DecodeSettings decodes a stored settings document on top of DefaultSettings, so fields a
// hand-edited document omits keep their defaults. Holdings are taken from the document only.
func DecodeSettings(raw []byte) (*Settings, error) {
	settings := DefaultSettings()
	settings.Holdings = nil
	if err := json.Unmarshal(raw, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate ensures the settings adhere to domain rules.
// Every returned error wraps ErrInvalidSettings.
func (s *Settings) Validate() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

func (s *Settings) validate() error {
	if s.Cash.IsNegative() {
		return errors.New("cash must be non-negative")
	}
	if s.SuperBalance.IsNegative() {
		return errors.New("super balance must be non-negative")
	}
	if s.Goal.IsNegative() {
		return errors.New("goal must be non-negative")
	}
	if err := s.Property.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Holdings))
	for _, h := range s.Holdings {
		if err := h.Validate(); err != nil {
			return err
		}
		if seen[h.Symbol] {
			return fmt.Errorf("duplicate holding %s", h.Symbol)
		}
		seen[h.Symbol] = true
	}
	if s.HomeCurrency == "" {
		return errors.New("home currency cannot be empty")
	}
	if s.hasForeign() && s.FXSymbol == "" {
		return errors.New("fx symbol is required when holdings are quoted in a foreign currency")
	}
	return s.Forecast.Validate()
}

func (s *Settings) hasForeign() bool {
	for _, h := range s.Holdings {
		if h.IsForeign() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate holdings safely
func (s *Settings) Clone() *Settings {
	c := *s
	c.Holdings = append([]Holding(nil), s.Holdings...)
	return &c
}
