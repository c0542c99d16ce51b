package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/forecast"
	"github.com/simaogato/networth-backend/internal/usecase/history"
	"github.com/simaogato/networth-backend/internal/usecase/networth"
	"github.com/simaogato/networth-backend/internal/usecase/seeder"
	"github.com/simaogato/networth-backend/internal/usecase/valuation"
)

// Overview is the result of one full recomputation pass
type Overview struct {
	AsOf            time.Time
	HomeCurrency    string
	ForeignCurrency string
	Valuation       valuation.Valuation
	// FXRate is HomeCurrency units per one ForeignCurrency unit
	FXRate          domain.Rate
	NetWorth        networth.Breakdown
	Goal            decimal.Decimal
	GoalProgress    decimal.Decimal
	Assumptions     domain.ForecastAssumptions
	Forecast        []forecast.Point
	SnapshotWritten bool
	// Warnings lists persistence failures the user should see; the figures are still valid
	Warnings []string
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	SettingsRepo domain.SettingsRepository
	HistoryRepo  domain.HistoryRepository
	Valuation    *valuation.Service

	seeder   *seeder.SettingsSeeder
	recorder *history.Recorder
	now      domain.Clock
	location *time.Location
	log      zerolog.Logger

	// passes append to the history ledger; serialise them so the daily guard holds
	mu sync.Mutex
}

// Option customises a DashboardService
type Option func(*DashboardService)

// WithClock overrides time.Now
func WithClock(clock domain.Clock) Option {
	return func(s *DashboardService) { s.now = clock }
}

// WithLocation sets the time zone whose calendar day a snapshot belongs to
func WithLocation(loc *time.Location) Option {
	return func(s *DashboardService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	settingsRepo domain.SettingsRepository,
	historyRepo domain.HistoryRepository,
	provider domain.QuoteProvider,
	log zerolog.Logger,
	opts ...Option,
) *DashboardService {
	s := &DashboardService{
		SettingsRepo: settingsRepo,
		HistoryRepo:  historyRepo,
		Valuation:    valuation.NewService(provider, log),
		seeder:       seeder.NewSettingsSeeder(settingsRepo, log),
		recorder:     history.NewRecorder(historyRepo, log),
		now:          time.Now,
		location:     time.Local,
		log:          log.With().Str("service", "dashboard").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh runs one full pass: settings, quotes, valuation, net worth, daily snapshot, forecast.
// Missing quotes and store failures degrade the result; only context cancellation aborts it.
func (s *DashboardService) Refresh(ctx context.Context) (*Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.seeder.Load(ctx)
	overview, err := s.compute(ctx, settings, settings.Forecast)
	if err != nil {
		return nil, err
	}

	written, err := s.recorder.RecordIfAbsent(ctx, overview.AsOf, overview.NetWorth.Total)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to record daily snapshot")
		overview.Warnings = append(overview.Warnings, fmt.Sprintf("snapshot not saved: %v", err))
	}
	overview.SnapshotWritten = written

	return overview, nil
}

// Forecast recomputes the projection with the given assumptions, or the saved ones when nil.
// It does not record a snapshot.
func (s *DashboardService) Forecast(ctx context.Context, assumptions *domain.ForecastAssumptions) (*Overview, error) {
	settings := s.seeder.Load(ctx)
	a := settings.Forecast
	if assumptions != nil {
		if err := assumptions.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
		}
		a = *assumptions
	}
	return s.compute(ctx, settings, a)
}

// History returns the resampled snapshot series. An unreadable ledger yields an empty series.
func (s *DashboardService) History(ctx context.Context, periodDays int) []domain.ResamplePoint {
	if periodDays <= 0 {
		periodDays = history.DefaultPeriodDays
	}
	if periodDays > history.MaxPeriodDays {
		periodDays = history.MaxPeriodDays
	}
	points, err := s.HistoryRepo.Resample(ctx, periodDays)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read history, returning empty series")
		return []domain.ResamplePoint{}
	}
	return points
}

// Settings returns the inputs the next pass will use
func (s *DashboardService) Settings(ctx context.Context) *domain.Settings {
	return s.seeder.Load(ctx)
}

// UpdateSettings validates and saves the inputs wholesale (last write wins)
func (s *DashboardService) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	// stores may keep the value; the caller keeps ownership of its holdings slice
	if err := s.SettingsRepo.Save(ctx, settings.Clone()); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.log.Info().Int("holdings", len(settings.Holdings)).Msg("Settings saved")
	return nil
}

// Seed writes the default settings if none have been saved yet
func (s *DashboardService) Seed(ctx context.Context) error {
	return s.seeder.Seed(ctx)
}

func (s *DashboardService) compute(ctx context.Context, settings *domain.Settings, assumptions domain.ForecastAssumptions) (*Overview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, rate := s.Valuation.Value(ctx, settings.Holdings, settings.FXSymbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	breakdown := networth.Calculate(settings.Cash, settings.Property, settings.SuperBalance, value.Total)

	return &Overview{
		AsOf:            s.now().In(s.location),
		HomeCurrency:    settings.HomeCurrency,
		ForeignCurrency: settings.ForeignCurrency,
		Valuation:       value,
		FXRate:          rate,
		NetWorth:        breakdown,
		Goal:            settings.Goal,
		GoalProgress:    networth.GoalProgress(breakdown.Total, settings.Goal),
		Assumptions:     assumptions,
		Forecast: forecast.Project(
			settings.Property,
			settings.SuperBalance,
			value.Total,
			settings.Cash,
			assumptions,
		),
		Warnings: []string{},
	}, nil
}
