package domain

import (
	"context"
	"time"
)

// SettingsRepository persists the user's inputs wholesale (last write wins)
type SettingsRepository interface {
	// Load returns the saved settings, or ErrNotFound if nothing was saved yet
	Load(ctx context.Context) (*Settings, error)

	// Save replaces the saved settings
	Save(ctx context.Context, settings *Settings) error
}

// HistoryRepository is the append-only ledger of daily net-worth snapshots
type HistoryRepository interface {
	// Latest returns the snapshot with the most recent date, or ErrNotFound when empty
	Latest(ctx context.Context) (*NetWorthSnapshot, error)

	// Append adds a snapshot to the ledger. Stores that enforce one snapshot per date
	// return ErrSnapshotExists instead of writing a duplicate.
	Append(ctx context.Context, snapshot *NetWorthSnapshot) error

	// List returns all snapshots sorted by date
	List(ctx context.Context) ([]*NetWorthSnapshot, error)

	// Resample downsamples the ledger to one point per periodDays window
	Resample(ctx context.Context, periodDays int) ([]ResamplePoint, error)
}

// Clock returns the current time; injected so passes are deterministic in tests
type Clock func() time.Time
