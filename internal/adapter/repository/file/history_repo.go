package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/history"
)

// HistoryFileName is the history ledger inside the data directory
const HistoryFileName = "net_worth_history.csv"

var historyHeader = []string{"Date", "Net Worth"}

// historyRepository implements domain.HistoryRepository over an append-only CSV file
type historyRepository struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewHistoryRepository creates a history repository rooted at dir
func NewHistoryRepository(dir string, log zerolog.Logger) (domain.HistoryRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &historyRepository{
		path: filepath.Join(dir, HistoryFileName),
		log:  log.With().Str("adapter", "file_history").Logger(),
	}, nil
}

// Latest returns the most recently dated snapshot, or domain.ErrNotFound for an empty ledger
func (r *historyRepository) Latest(ctx context.Context) (*domain.NetWorthSnapshot, error) {
	snapshots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, domain.ErrNotFound
	}

	latest := snapshots[0]
	for _, s := range snapshots[1:] {
		if !s.Date.Before(latest.Date) {
			latest = s
		}
	}
	return latest, nil
}

// Append adds one row, writing the header first when the file is new or empty
func (r *historyRepository) Append(ctx context.Context, snapshot *domain.NetWorthSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat history file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}
	if err := w.Write([]string{
		domain.Day(snapshot.Date).Format(domain.DateLayout),
		snapshot.Total.String(),
	}); err != nil {
		return fmt.Errorf("failed to write history row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush history file: %w", err)
	}
	return f.Sync()
}

// List returns every snapshot in file order. A missing file is an empty ledger;
// rows that cannot be parsed are skipped.
func (r *historyRepository) List(ctx context.Context) ([]*domain.NetWorthSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*domain.NetWorthSnapshot{}, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	snapshots := []*domain.NetWorthSnapshot{}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history file: %w", err)
		}
		if line == 1 && len(record) > 0 && record[0] == historyHeader[0] {
			continue
		}

		snapshot, err := parseRow(record)
		if err != nil {
			r.log.Warn().Err(err).Int("line", line).Msg("Skipping malformed history row")
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// Resample downsamples the ledger; see history.Resample
func (r *historyRepository) Resample(ctx context.Context, periodDays int) ([]domain.ResamplePoint, error) {
	snapshots, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return history.Resample(snapshots, periodDays), nil
}

func parseRow(record []string) (*domain.NetWorthSnapshot, error) {
	if len(record) < 2 {
		return nil, fmt.Errorf("expected 2 columns, got %d", len(record))
	}
	date, err := time.Parse(domain.DateLayout, record[0])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", record[0], err)
	}
	total, err := decimal.NewFromString(record[1])
	if err != nil {
		return nil, fmt.Errorf("invalid net worth %q: %w", record[1], err)
	}
	return &domain.NetWorthSnapshot{Date: date, Total: total}, nil
}
