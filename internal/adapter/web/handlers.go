package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/simaogato/networth-backend/internal/usecase/history"
)

// handleOverview renders the portfolio bar chart and the forecast for the saved assumptions.
// Like every full pass it may record today's snapshot.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dashboard.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return renderPage(buf, holdingsChart(overview), forecastChart(overview))
	})
}

// handleForecast renders the projection, optionally overriding the saved assumptions from the query.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	assumptions, err := s.assumptionsFromQuery(r.Context(), r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	overview, err := s.dashboard.Forecast(r.Context(), assumptions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return renderPage(buf, forecastChart(overview))
	})
}

// handleHistory renders the resampled history chart
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	periodDays, err := periodFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	points := s.dashboard.History(r.Context(), periodDays)
	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return renderPage(buf, historyChart(points, periodDays))
	})
}

// handleAPIOverview returns the overview as JSON
func (s *Server) handleAPIOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.dashboard.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newOverviewResponse(overview))
}

// handleAPIHistory returns the resampled history as JSON
func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	periodDays, err := periodFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	points := s.dashboard.History(r.Context(), periodDays)
	resp := historyResponse{PeriodDays: periodDays, Points: make([]historyPoint, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, historyPoint{
			PeriodEnd: p.PeriodEnd.Format(domain.DateLayout),
			Value:     p.Value,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errBadRequest marks query parsing failures
var errBadRequest = errors.New("bad request")

func periodFromQuery(q url.Values) (int, error) {
	raw := q.Get("period_days")
	if raw == "" {
		return history.DefaultPeriodDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > history.MaxPeriodDays {
		return 0, fmt.Errorf("%w: period_days must be an integer between 1 and %d", errBadRequest, history.MaxPeriodDays)
	}
	return n, nil
}

// assumptionsFromQuery returns nil when no override is present. Otherwise the saved assumptions
// are copied and the given parameters replace individual fields.
func (s *Server) assumptionsFromQuery(ctx context.Context, q url.Values) (*domain.ForecastAssumptions, error) {
	keys := []string{
		"horizon_years", "contribution_frequency", "annual_loan_repayment",
		"property_growth", "portfolio_growth", "super_growth",
		"property_contribution", "portfolio_contribution", "super_contribution",
	}
	present := false
	for _, k := range keys {
		if q.Has(k) {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	a := s.dashboard.Settings(ctx).Forecast

	if raw := q.Get("horizon_years"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: horizon_years must be an integer", errBadRequest)
		}
		a.HorizonYears = n
	}
	if raw := q.Get("contribution_frequency"); raw != "" {
		if err := a.ContributionFrequency.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	decimals := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"annual_loan_repayment", &a.AnnualLoanRepayment},
		{"property_growth", &a.Property.AnnualGrowthRate},
		{"portfolio_growth", &a.Portfolio.AnnualGrowthRate},
		{"super_growth", &a.Super.AnnualGrowthRate},
		{"property_contribution", &a.Property.ContributionPerPeriod},
		{"portfolio_contribution", &a.Portfolio.ContributionPerPeriod},
		{"super_contribution", &a.Super.ContributionPerPeriod},
	}
	for _, d := range decimals {
		raw := q.Get(d.key)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", errBadRequest, d.key)
		}
		*d.target = v
	}
	return &a, nil
}

func (s *Server) writeHTML(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, domain.ErrInvalidSettings):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		s.log.Error().Err(err).Msg("Request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type assetResponse struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPriceHome decimal.Decimal `json:"unit_price_home"`
	ValueHome     decimal.Decimal `json:"value_home"`
	Available     bool            `json:"available"`
}

type forecastPointResponse struct {
	Year           int             `json:"year"`
	PropertyValue  decimal.Decimal `json:"property_value"`
	LoanBalance    decimal.Decimal `json:"loan_balance"`
	PropertyEquity decimal.Decimal `json:"property_equity"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	SuperValue     decimal.Decimal `json:"super_value"`
	Total          decimal.Decimal `json:"total"`
}

type overviewResponse struct {
	AsOf            time.Time               `json:"as_of"`
	HomeCurrency    string                  `json:"home_currency"`
	ForeignCurrency string                  `json:"foreign_currency"`
	FXRate          *decimal.Decimal        `json:"fx_rate"` // null when unavailable
	Assets          []assetResponse         `json:"assets"`
	PortfolioTotal  decimal.Decimal         `json:"portfolio_total"`
	Cash            decimal.Decimal         `json:"cash"`
	PropertyEquity  decimal.Decimal         `json:"property_equity"`
	EquityPercent   decimal.Decimal         `json:"equity_percent"`
	UserEquity      decimal.Decimal         `json:"user_equity"`
	SuperBalance    decimal.Decimal         `json:"super_balance"`
	NetWorth        decimal.Decimal         `json:"net_worth"`
	NetWorthDisplay string                  `json:"net_worth_display"`
	Goal            decimal.Decimal         `json:"goal"`
	GoalProgress    decimal.Decimal         `json:"goal_progress"`
	Forecast        []forecastPointResponse `json:"forecast"`
	SnapshotWritten bool                    `json:"snapshot_written"`
	Warnings        []string                `json:"warnings"`
}

func newOverviewResponse(o *dashboard.Overview) overviewResponse {
	resp := overviewResponse{
		AsOf:            o.AsOf,
		HomeCurrency:    o.HomeCurrency,
		ForeignCurrency: o.ForeignCurrency,
		Assets:          make([]assetResponse, 0, len(o.Valuation.Assets)),
		PortfolioTotal:  o.Valuation.Total,
		Cash:            o.NetWorth.Cash,
		PropertyEquity:  o.NetWorth.Equity,
		EquityPercent:   o.NetWorth.EquityPercent,
		UserEquity:      o.NetWorth.UserEquity,
		SuperBalance:    o.NetWorth.SuperBalance,
		NetWorth:        o.NetWorth.Total,
		NetWorthDisplay: FormatMoney(o.NetWorth.Total, o.HomeCurrency),
		Goal:            o.Goal,
		GoalProgress:    o.GoalProgress,
		Forecast:        make([]forecastPointResponse, 0, len(o.Forecast)),
		SnapshotWritten: o.SnapshotWritten,
		Warnings:        o.Warnings,
	}
	if o.FXRate.Available {
		rate := o.FXRate.Value
		resp.FXRate = &rate
	}
	for _, a := range o.Valuation.Assets {
		resp.Assets = append(resp.Assets, assetResponse{
			Symbol:        a.Symbol,
			Name:          a.Name,
			Quantity:      a.Quantity,
			UnitPriceHome: a.UnitPriceHome,
			ValueHome:     a.ValueHome,
			Available:     a.Available,
		})
	}
	for _, p := range o.Forecast {
		resp.Forecast = append(resp.Forecast, forecastPointResponse{
			Year:           p.Year,
			PropertyValue:  p.PropertyValue,
			LoanBalance:    p.LoanBalance,
			PropertyEquity: p.PropertyEquity,
			PortfolioValue: p.PortfolioValue,
			SuperValue:     p.SuperValue,
			Total:          p.Total,
		})
	}
	return resp
}

type historyPoint struct {
	PeriodEnd string          `json:"period_end"`
	Value     decimal.Decimal `json:"value"`
}

type historyResponse struct {
	PeriodDays int            `json:"period_days"`
	Points     []historyPoint `json:"points"`
}
