// Package history records daily net-worth snapshots and downsamples them for charting.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
)

// Recorder writes at most one snapshot per calendar day
type Recorder struct {
	HistoryRepo domain.HistoryRepository
	log         zerolog.Logger
}

// NewRecorder creates a new Recorder instance
func NewRecorder(historyRepo domain.HistoryRepository, log zerolog.Logger) *Recorder {
	return &Recorder{
		HistoryRepo: historyRepo,
		log:         log.With().Str("service", "history").Logger(),
	}
}

// RecordIfAbsent appends {today, netWorth} unless the latest snapshot is already dated today.
// Logic:
//   - Latest entry dated today: no-op, written = false
//   - Empty ledger or older latest entry: append, written = true
//   - Ledger unreadable: treated as empty (logged), so a snapshot is still attempted
//   - Store refuses the date as already recorded: written = false
//
// Only append failures are returned.
func (r *Recorder) RecordIfAbsent(ctx context.Context, today time.Time, netWorth decimal.Decimal) (bool, error) {
	day := domain.Day(today)

	latest, err := r.HistoryRepo.Latest(ctx)
	switch {
	case err == nil:
		if domain.SameDay(latest.Date, day) {
			return false, nil
		}
	case errors.Is(err, domain.ErrNotFound):
	default:
		r.log.Warn().Err(err).Msg("History unreadable, treating it as empty")
	}

	snapshot := &domain.NetWorthSnapshot{
		ID:    uuid.New(),
		Date:  day,
		Total: netWorth,
	}
	if err := r.HistoryRepo.Append(ctx, snapshot); err != nil {
		if errors.Is(err, domain.ErrSnapshotExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to append net worth snapshot: %w", err)
	}

	r.log.Info().
		Str("date", day.Format(domain.DateLayout)).
		Str("net_worth", netWorth.StringFixed(2)).
		Msg("Recorded daily snapshot")
	return true, nil
}
