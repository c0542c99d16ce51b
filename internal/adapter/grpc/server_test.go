package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/simaogato/networth-backend/internal/usecase/history"
)

const testToken = "test-token"

type memorySettings struct {
	mu       sync.Mutex
	settings *domain.Settings
}

func (m *memorySettings) Load(ctx context.Context) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, domain.ErrNotFound
	}
	return m.settings.Clone(), nil
}

func (m *memorySettings) Save(ctx context.Context, settings *domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

type testEnv struct {
	conn    *grpc.ClientConn
	history *memoryHistory
}

func setupServer(t *testing.T) *testEnv {
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
		{Symbol: "VAS.AX", Quantity: decimal.NewFromInt(300), QuoteCurrency: domain.QuoteCurrencyHome},
	}

	hist := &memoryHistory{}
	svc := dashboard.NewDashboardService(
		&memorySettings{settings: settings},
		hist,
		fixedQuotes{"VAS.AX": "100"},
		zerolog.Nop(),
		dashboard.WithClock(func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }),
		dashboard.WithLocation(time.UTC),
	)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zerolog.Nop()),
		AuthInterceptor(testToken),
	))
	RegisterNetWorthServiceServer(srv, NewServer(svc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{conn: conn, history: hist}
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func TestServer_GetOverview(t *testing.T) {
	env := setupServer(t)

	out := new(structpb.Struct)
	err := env.conn.Invoke(authed(), MethodGetOverview, &emptypb.Empty{}, out)
	require.NoError(t, err)

	doc := out.AsMap()
	netWorth := doc["net_worth"].(map[string]interface{})
	assert.Equal(t, "101000.00", netWorth["total"])
	assert.Equal(t, "50000.00", netWorth["user_equity"])
	assert.Equal(t, "30000.00", doc["portfolio_total"])
	fx := doc["fx_rate"].(map[string]interface{})
	assert.Equal(t, "USD", fx["foreign_currency"])
	assert.Equal(t, "AUD", fx["home_currency"])
	assert.Equal(t, true, doc["snapshot_written"])
	assert.Len(t, doc["forecast"], 6)
	assert.Len(t, env.history.snapshots, 1)

	// second pass on the same day does not append
	err = env.conn.Invoke(authed(), MethodGetOverview, &emptypb.Empty{}, out)
	require.NoError(t, err)
	assert.Equal(t, false, out.AsMap()["snapshot_written"])
	assert.Len(t, env.history.snapshots, 1)
}

func TestServer_RequiresToken(t *testing.T) {
	env := setupServer(t)

	err := env.conn.Invoke(context.Background(), MethodGetOverview, &emptypb.Empty{}, new(structpb.Struct))

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_GetForecast(t *testing.T) {
	env := setupServer(t)

	req, err := structpb.NewStruct(map[string]interface{}{
		"property":               map[string]interface{}{"annual_growth_rate": "0"},
		"portfolio":              map[string]interface{}{"annual_growth_rate": "0.1"},
		"super":                  map[string]interface{}{"annual_growth_rate": 0},
		"contribution_frequency": "none",
		"horizon_years":          2,
	})
	require.NoError(t, err)

	out := new(structpb.Struct)
	require.NoError(t, env.conn.Invoke(authed(), MethodGetForecast, req, out))

	forecast := out.AsMap()["forecast"].([]interface{})
	require.Len(t, forecast, 3)
	assert.Equal(t, "36300.00", forecast[2].(map[string]interface{})["portfolio_value"])
	assert.Empty(t, env.history.snapshots)

	bad, err := structpb.NewStruct(map[string]interface{}{"horizon_years": 99})
	require.NoError(t, err)
	err = env.conn.Invoke(authed(), MethodGetForecast, bad, out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_GetHistory(t *testing.T) {
	env := setupServer(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		env.history.snapshots = append(env.history.snapshots, &domain.NetWorthSnapshot{
			Date:  start.AddDate(0, 0, i),
			Total: decimal.NewFromInt(int64(i)),
		})
	}

	req, err := structpb.NewStruct(map[string]interface{}{"period_days": 14})
	require.NoError(t, err)

	out := new(structpb.Struct)
	require.NoError(t, env.conn.Invoke(authed(), MethodGetHistory, req, out))

	points := out.AsMap()["points"].([]interface{})
	require.Len(t, points, 3)
	first := points[0].(map[string]interface{})
	assert.Equal(t, "2026-01-14", first["period_end"])
	assert.Equal(t, "13", first["value"])

	for _, bad := range []float64{-1, history.MaxPeriodDays + 1, 1 << 48, 1e300} {
		req, err := structpb.NewStruct(map[string]interface{}{"period_days": bad})
		require.NoError(t, err)
		err = env.conn.Invoke(authed(), MethodGetHistory, req, new(structpb.Struct))
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "period_days %v", bad)
	}
}

func TestServer_Settings(t *testing.T) {
	env := setupServer(t)

	current := new(structpb.Struct)
	require.NoError(t, env.conn.Invoke(authed(), MethodGetSettings, &emptypb.Empty{}, current))
	assert.Equal(t, "1000", current.AsMap()["cash"])

	current.Fields["cash"] = structpb.NewStringValue("2500.50")
	updated := new(structpb.Struct)
	require.NoError(t, env.conn.Invoke(authed(), MethodUpdateSettings, current, updated))
	assert.Equal(t, "2500.5", updated.AsMap()["cash"])

	reread := new(structpb.Struct)
	require.NoError(t, env.conn.Invoke(authed(), MethodGetSettings, &emptypb.Empty{}, reread))
	assert.Equal(t, "2500.5", reread.AsMap()["cash"])

	reread.Fields["super_balance"] = structpb.NewStringValue("-1")
	err := env.conn.Invoke(authed(), MethodUpdateSettings, reread, updated)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	reread.Fields["super_balance"] = structpb.NewBoolValue(true)
	err = env.conn.Invoke(authed(), MethodUpdateSettings, reread, updated)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
