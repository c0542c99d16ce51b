package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_LoadMissing(t *testing.T) {
	repo, err := NewSettingsRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsRepository_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewSettingsRepository(dir)
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Cash = decimal.RequireFromString("12345.67")
	settings.Forecast.ContributionFrequency = domain.FrequencyMonthly
	settings.Forecast.Portfolio.ContributionPerPeriod = decimal.NewFromInt(500)
	require.NoError(t, repo.Save(ctx, settings))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Cash.Equal(settings.Cash))
	assert.Equal(t, domain.FrequencyMonthly, loaded.Forecast.ContributionFrequency)
	assert.True(t, loaded.Forecast.Portfolio.ContributionPerPeriod.Equal(decimal.NewFromInt(500)))
	require.Len(t, loaded.Holdings, len(settings.Holdings))
	assert.Equal(t, "BTC-USD", loaded.Holdings[7].Symbol)
	assert.True(t, loaded.Holdings[7].Quantity.Equal(decimal.RequireFromString("0.018302")))
	assert.NoError(t, loaded.Validate())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSettingsRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSettingsRepository(t.TempDir())
	require.NoError(t, err)

	first := domain.DefaultSettings()
	require.NoError(t, repo.Save(ctx, first))

	second := domain.DefaultSettings()
	second.Goal = decimal.NewFromInt(2000000)
	second.Holdings = second.Holdings[:1]
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Goal.Equal(decimal.NewFromInt(2000000)))
	assert.Len(t, loaded.Holdings, 1)
}

func TestSettingsRepository_LoadRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "not json",
			content: `{"cash": `,
			errMsg:  "failed to parse settings file",
		},
		{
			name:    "missing holdings",
			content: `{"cash": "1", "property": {"market_value": "1", "loan_balance": "0"}, "super_balance": "0"}`,
			errMsg:  "failed to validate settings file",
		},
		{
			name:    "bad quote currency",
			content: `{"cash": "1", "property": {"market_value": "1", "loan_balance": "0"}, "super_balance": "0", "holdings": [{"symbol": "X", "quantity": "1", "quote_currency": "EUR"}]}`,
			errMsg:  "failed to validate settings file",
		},
		{
			name:    "non numeric amount",
			content: `{"cash": "lots", "property": {"market_value": "1", "loan_balance": "0"}, "super_balance": "0", "holdings": []}`,
			errMsg:  "failed to validate settings file",
		},
		{
			name:    "unknown frequency",
			content: `{"cash": "1", "property": {"market_value": "1", "loan_balance": "0"}, "super_balance": "0", "holdings": [], "forecast": {"contribution_frequency": "DAILY"}}`,
			errMsg:  "failed to decode settings file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(tt.content), 0o644))
			repo, err := NewSettingsRepository(dir)
			require.NoError(t, err)

			_, err = repo.Load(context.Background())

			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrNotFound)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSettingsRepository_LoadAcceptsPlainNumbers(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"cash": 1000,
		"property": {"market_value": 500000, "loan_balance": 400000, "ownership_fraction": 0.5},
		"super_balance": 20000,
		"holdings": [{"symbol": "VAS.AX", "quantity": 100, "quote_currency": "HOME"}],
		"home_currency": "AUD",
		"forecast": {"contribution_frequency": "monthly", "horizon_years": 3}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o644))
	repo, err := NewSettingsRepository(dir)
	require.NoError(t, err)

	settings, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, settings.Property.OwnershipFraction.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, domain.FrequencyMonthly, settings.Forecast.ContributionFrequency)
	assert.Equal(t, 3, settings.Forecast.HorizonYears)
}

func TestSettingsRepository_LoadKeepsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"cash": "1000",
		"property": {"market_value": "500000", "loan_balance": "400000"},
		"super_balance": "20000",
		"holdings": [{"symbol": "VAS.AX", "quantity": "100", "quote_currency": "HOME"}],
		"home_currency": "AUD"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o644))
	repo, err := NewSettingsRepository(dir)
	require.NoError(t, err)

	settings, err := repo.Load(context.Background())

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.True(t, settings.Property.OwnershipFraction.Equal(domain.DefaultOwnershipFraction))
	assert.True(t, settings.Property.MarketValue.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, defaults.Forecast.HorizonYears, settings.Forecast.HorizonYears)
	assert.True(t, settings.Forecast.Property.AnnualGrowthRate.Equal(defaults.Forecast.Property.AnnualGrowthRate))
	require.Len(t, settings.Holdings, 1)
	assert.Equal(t, "VAS.AX", settings.Holdings[0].Symbol)
	assert.Empty(t, settings.Holdings[0].Name)
	assert.NoError(t, settings.Validate())
}
