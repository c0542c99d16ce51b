package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/history"
)

// snapshotRepository implements domain.HistoryRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new net worth snapshot repository
func NewSnapshotRepository(db *DB) domain.HistoryRepository {
	return &snapshotRepository{db: db}
}

// Latest retrieves the most recently dated snapshot
func (r *snapshotRepository) Latest(ctx context.Context) (*domain.NetWorthSnapshot, error) {
	query := `
		SELECT id, date, net_worth
		FROM net_worth_snapshots
		ORDER BY date DESC
		LIMIT 1
	`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return snapshot, nil
}

// Append inserts a snapshot. A second snapshot for the same date is not written and
// ErrSnapshotExists is returned.
func (r *snapshotRepository) Append(ctx context.Context, snapshot *domain.NetWorthSnapshot) error {
	id := snapshot.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := r.db.rebind(`
		INSERT INTO net_worth_snapshots (id, date, net_worth)
		VALUES (?, ?, ?)
		ON CONFLICT (date) DO NOTHING
	`)

	result, err := r.db.ExecContext(ctx, query,
		id.String(),
		domain.Day(snapshot.Date).Format(domain.DateLayout),
		snapshot.Total.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check inserted snapshot: %w", err)
	}
	if rows == 0 {
		return domain.ErrSnapshotExists
	}
	return nil
}

// List retrieves all snapshots ordered by date
func (r *snapshotRepository) List(ctx context.Context) ([]*domain.NetWorthSnapshot, error) {
	query := `
		SELECT id, date, net_worth
		FROM net_worth_snapshots
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*domain.NetWorthSnapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Resample downsamples the stored snapshots; see history.Resample
func (r *snapshotRepository) Resample(ctx context.Context, periodDays int) ([]domain.ResamplePoint, error) {
	snapshots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return history.Resample(snapshots, periodDays), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.NetWorthSnapshot, error) {
	var idStr, dateStr, netWorthStr string
	if err := row.Scan(&idStr, &dateStr, &netWorthStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse id: %w", err)
	}

	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	// Parse net_worth (DECIMAL stored as text)
	netWorth, err := decimal.NewFromString(netWorthStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse net_worth: %w", err)
	}

	return &domain.NetWorthSnapshot{ID: id, Date: date, Total: netWorth}, nil
}
