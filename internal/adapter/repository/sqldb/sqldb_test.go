package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB("mysql", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			name:   "postgres numbers placeholders",
			driver: DriverPostgres,
			query:  "INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			want:   "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
		{
			name:   "postgres numbers placeholders across lines",
			driver: DriverPostgres,
			query:  "SELECT document\nFROM settings\nWHERE id = ? AND updated_at > ?",
			want:   "SELECT document\nFROM settings\nWHERE id = $1 AND updated_at > $2",
		},
		{
			name:   "sqlite keeps question marks",
			driver: DriverSQLite,
			query:  "SELECT * FROM t WHERE id = ?",
			want:   "SELECT * FROM t WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &DB{driver: tt.driver}
			assert.Equal(t, tt.want, db.rebind(tt.query))
		})
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Migrate(context.Background()))
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newTestDB(t))

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	settings := domain.DefaultSettings()
	require.NoError(t, repo.Save(ctx, settings))

	settings.Cash = decimal.NewFromInt(42)
	require.NoError(t, repo.Save(ctx, settings))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Cash.Equal(decimal.NewFromInt(42)))
	assert.Len(t, loaded.Holdings, 8)
	assert.Equal(t, "USDAUD=X", loaded.FXSymbol)
}

func TestSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(newTestDB(t))

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first := &domain.NetWorthSnapshot{ID: uuid.New(), Date: day(2026, 10, 16), Total: decimal.RequireFromString("100000.50")}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, &domain.NetWorthSnapshot{Date: day(2026, 10, 18), Total: decimal.NewFromInt(101000)}))
	require.NoError(t, repo.Append(ctx, &domain.NetWorthSnapshot{Date: day(2026, 10, 17), Total: decimal.NewFromInt(100500)}))

	// same date again is refused and leaves the first row in place
	err = repo.Append(ctx, &domain.NetWorthSnapshot{Date: day(2026, 10, 18), Total: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrSnapshotExists)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 10, 18), latest.Date)
	assert.True(t, latest.Total.Equal(decimal.NewFromInt(101000)))
	assert.NotEqual(t, uuid.Nil, latest.ID)

	snapshots, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, first.ID, snapshots[0].ID)
	assert.True(t, snapshots[0].Total.Equal(decimal.RequireFromString("100000.50")))
	assert.Equal(t, day(2026, 10, 17), snapshots[1].Date)
}

func TestSnapshotRepository_Resample(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(newTestDB(t))

	start := day(2026, 1, 1)
	for i := 0; i < 30; i++ {
		require.NoError(t, repo.Append(ctx, &domain.NetWorthSnapshot{
			Date:  start.AddDate(0, 0, i),
			Total: decimal.NewFromInt(int64(i)),
		}))
	}

	points, err := repo.Resample(ctx, 14)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, day(2026, 1, 28), points[1].PeriodEnd)
	assert.True(t, points[1].Value.Equal(decimal.NewFromInt(27)))
}
