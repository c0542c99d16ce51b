package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/simaogato/networth-backend/internal/usecase/history"
)

type memorySettings struct {
	settings *domain.Settings
}

func (m *memorySettings) Load(ctx context.Context) (*domain.Settings, error) {
	if m.settings == nil {
		return nil, domain.ErrNotFound
	}
	return m.settings.Clone(), nil
}

func (m *memorySettings) Save(ctx context.Context, settings *domain.Settings) error {
	m.settings = settings.Clone()
	return nil
}

type memoryHistory struct {
	mu        sync.Mutex
	snapshots []*domain.NetWorthSnapshot
}

func (m *memoryHistory) Latest(ctx context.Context) (*domain.NetWorthSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snapshots) == 0 {
		return nil, domain.ErrNotFound
	}
	return m.snapshots[len(m.snapshots)-1], nil
}

func (m *memoryHistory) Append(ctx context.Context, snapshot *domain.NetWorthSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *memoryHistory) List(ctx context.Context) ([]*domain.NetWorthSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.NetWorthSnapshot(nil), m.snapshots...), nil
}

func (m *memoryHistory) Resample(ctx context.Context, periodDays int) ([]domain.ResamplePoint, error) {
	snapshots, _ := m.List(ctx)
	return history.Resample(snapshots, periodDays), nil
}

type fixedQuotes map[string]string

func (q fixedQuotes) GetQuote(ctx context.Context, symbol string, hint domain.IntervalHint) (domain.Quote, bool) {
	price, ok := q[symbol]
	if !ok {
		return domain.Quote{}, false
	}
	return domain.Quote{Symbol: symbol, Price: decimal.RequireFromString(price)}, true
}

func newTestServer(t *testing.T) (*Server, *memoryHistory) {
	t.Helper()

	settings := domain.DefaultSettings()
	settings.Cash = decimal.NewFromInt(1000)
	settings.Property = domain.PropertyPosition{
		MarketValue:       decimal.NewFromInt(500000),
		LoanBalance:       decimal.NewFromInt(400000),
		OwnershipFraction: decimal.RequireFromString("0.5"),
	}
	settings.SuperBalance = decimal.NewFromInt(20000)
	settings.Holdings = []domain.Holding{
		{Symbol: "VAS.AX", Name: "Vanguard Australian Shares ETF", Quantity: decimal.NewFromInt(300), QuoteCurrency: domain.QuoteCurrencyHome},
		{Symbol: "NVDA", Quantity: decimal.NewFromInt(1), QuoteCurrency: domain.QuoteCurrencyForeign, Fractional: true},
	}

	hist := &memoryHistory{}
	svc := dashboard.NewDashboardService(
		&memorySettings{settings: settings},
		hist,
		// no FX quote: the foreign holding degrades to zero
		fixedQuotes{"VAS.AX": "100", "NVDA": "150"},
		zerolog.Nop(),
		dashboard.WithClock(func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }),
		dashboard.WithLocation(time.UTC),
	)

	return New(Config{Addr: ":0", Log: zerolog.Nop(), Dashboard: svc}), hist
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestAPIOverview(t *testing.T) {
	s, hist := newTestServer(t)

	rec := get(t, s, "/api/overview")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "101000", body["net_worth"])
	assert.Equal(t, "$101,000.00", body["net_worth_display"])
	assert.Equal(t, "30000", body["portfolio_total"])
	assert.Nil(t, body["fx_rate"])
	assert.Equal(t, "USD", body["foreign_currency"])
	assert.Equal(t, true, body["snapshot_written"])

	assets := body["assets"].([]interface{})
	require.Len(t, assets, 2)
	assert.Equal(t, false, assets[1].(map[string]interface{})["available"])
	assert.Len(t, hist.snapshots, 1)
}

func TestOverviewPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "echarts")
	assert.Contains(t, rec.Body.String(), "VAS.AX")
}

func TestForecastPage(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"saved assumptions", "/forecast", http.StatusOK},
		{"override", "/forecast?horizon_years=10&portfolio_growth=0.1&contribution_frequency=monthly&portfolio_contribution=500", http.StatusOK},
		{"not a number", "/forecast?horizon_years=ten", http.StatusBadRequest},
		{"unknown frequency", "/forecast?contribution_frequency=daily", http.StatusBadRequest},
		{"bad decimal", "/forecast?super_growth=abc", http.StatusBadRequest},
		{"horizon out of range", "/forecast?horizon_years=99", http.StatusBadRequest},
		{"growth out of range", "/forecast?property_growth=0.5", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, hist := newTestServer(t)

			rec := get(t, s, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, hist.snapshots, "forecast must not record a snapshot")
		})
	}
}

func TestAPIHistory(t *testing.T) {
	s, hist := newTestServer(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		hist.snapshots = append(hist.snapshots, &domain.NetWorthSnapshot{
			Date:  start.AddDate(0, 0, i),
			Total: decimal.NewFromInt(int64(100 + i)),
		})
	}

	rec := get(t, s, "/api/history")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(14), body["period_days"])
	points := body["points"].([]interface{})
	require.Len(t, points, 3)
	assert.Equal(t, "2026-01-14", points[0].(map[string]interface{})["period_end"])
	assert.Equal(t, "113", points[0].(map[string]interface{})["value"])

	rec = get(t, s, "/api/history?period_days=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["points"], 5)

	rec = get(t, s, "/api/history?period_days=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, s, "/api/history?period_days=281474976710656")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryPage_Empty(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/history?period_days=14")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No snapshots recorded yet")
}
