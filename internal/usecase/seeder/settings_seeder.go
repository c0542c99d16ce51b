package seeder

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/simaogato/networth-backend/internal/domain"
)

// SettingsSeeder makes sure a usable set of inputs is always available
type SettingsSeeder struct {
	repo     domain.SettingsRepository
	defaults func() *domain.Settings
	log      zerolog.Logger
}

// NewSettingsSeeder creates a new SettingsSeeder instance
func NewSettingsSeeder(repo domain.SettingsRepository, log zerolog.Logger) *SettingsSeeder {
	return &SettingsSeeder{
		repo:     repo,
		defaults: domain.DefaultSettings,
		log:      log.With().Str("service", "seeder").Logger(),
	}
}

// Seed writes the built-in defaults when the store has never been written.
// Existing settings, valid or not, are left untouched.
func (s *SettingsSeeder) Seed(ctx context.Context) error {
	_, err := s.repo.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Msg("Saved settings unreadable, not seeding over them")
		return nil
	}

	defaults := s.defaults()
	if err := defaults.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, defaults); err != nil {
		return err
	}
	s.log.Info().Msg("Seeded default settings")
	return nil
}

// Load returns the saved settings, falling back to the built-in defaults when they are
// missing, unreadable or invalid. It never fails.
func (s *SettingsSeeder) Load(ctx context.Context) *domain.Settings {
	settings, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.defaults()
	case err != nil:
		s.log.Warn().Err(err).Msg("Failed to read settings, using defaults")
		return s.defaults()
	}

	if err := settings.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("Saved settings invalid, using defaults")
		return s.defaults()
	}
	return settings
}
