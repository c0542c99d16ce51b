package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/simaogato/networth-backend/internal/usecase/history"
)

// Server implements the NetWorthService gRPC server
type Server struct {
	DashboardService *dashboard.DashboardService
}

// NewServer creates a new gRPC server instance
func NewServer(dashboardService *dashboard.DashboardService) *Server {
	return &Server{
		DashboardService: dashboardService,
	}
}

// GetOverview handles the GetOverview RPC.
// It runs a full pass, which may record today's snapshot.
func (s *Server) GetOverview(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	overview, err := s.DashboardService.Refresh(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return overviewToStruct(overview)
}

// GetForecast handles the GetForecast RPC.
// An empty request uses the saved assumptions; otherwise the request is the full assumption set.
func (s *Server) GetForecast(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var assumptions *domain.ForecastAssumptions
	if len(req.GetFields()) > 0 {
		assumptions = &domain.ForecastAssumptions{}
		if err := decodeStruct(req, assumptions); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid forecast assumptions: %v", err)
		}
	}

	overview, err := s.DashboardService.Forecast(ctx, assumptions)
	if err != nil {
		return nil, mapError(err)
	}
	return overviewToStruct(overview)
}

// GetHistory handles the GetHistory RPC
func (s *Server) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw := req.GetFields()["period_days"].GetNumberValue()
	if raw < 0 || raw > history.MaxPeriodDays {
		return nil, status.Errorf(codes.InvalidArgument, "period_days must be between 1 and %d", history.MaxPeriodDays)
	}
	// zero (absent) selects the default period
	periodDays := int(raw)

	points := s.DashboardService.History(ctx, periodDays)

	list := make([]interface{}, 0, len(points))
	for _, p := range points {
		list = append(list, map[string]interface{}{
			"period_end": p.PeriodEnd.Format(domain.DateLayout),
			"value":      p.Value.String(),
		})
	}

	return newStruct(map[string]interface{}{
		"points": list,
	})
}

// GetSettings handles the GetSettings RPC
func (s *Server) GetSettings(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(s.DashboardService.Settings(ctx))
}

// UpdateSettings handles the UpdateSettings RPC.
// The request replaces the saved settings wholesale.
func (s *Server) UpdateSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var settings domain.Settings
	if err := decodeStruct(req, &settings); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid settings format: %v", err)
	}

	if err := s.DashboardService.UpdateSettings(ctx, &settings); err != nil {
		return nil, mapError(err)
	}
	return toStruct(&settings)
}

// overviewToStruct converts a dashboard overview to its wire document
func overviewToStruct(o *dashboard.Overview) (*structpb.Struct, error) {
	assets := make([]interface{}, 0, len(o.Valuation.Assets))
	for _, a := range o.Valuation.Assets {
		assets = append(assets, map[string]interface{}{
			"symbol":          a.Symbol,
			"name":            a.Name,
			"quantity":        a.Quantity.String(),
			"unit_price_home": a.UnitPriceHome.StringFixed(2),
			"value_home":      a.ValueHome.StringFixed(2),
			"available":       a.Available,
		})
	}

	forecast := make([]interface{}, 0, len(o.Forecast))
	for _, p := range o.Forecast {
		forecast = append(forecast, map[string]interface{}{
			"year":            p.Year,
			"property_value":  p.PropertyValue.StringFixed(2),
			"loan_balance":    p.LoanBalance.StringFixed(2),
			"property_equity": p.PropertyEquity.StringFixed(2),
			"portfolio_value": p.PortfolioValue.StringFixed(2),
			"super_value":     p.SuperValue.StringFixed(2),
			"total":           p.Total.StringFixed(2),
		})
	}

	warnings := make([]interface{}, 0, len(o.Warnings))
	for _, w := range o.Warnings {
		warnings = append(warnings, w)
	}

	fx := map[string]interface{}{
		"available":        o.FXRate.Available,
		"foreign_currency": o.ForeignCurrency,
		"home_currency":    o.HomeCurrency,
	}
	if o.FXRate.Available {
		fx["value"] = o.FXRate.Value.String()
	}

	return newStruct(map[string]interface{}{
		"as_of":           o.AsOf.Format(time.RFC3339),
		"home_currency":   o.HomeCurrency,
		"fx_rate":         fx,
		"assets":          assets,
		"portfolio_total": o.Valuation.Total.StringFixed(2),
		"net_worth": map[string]interface{}{
			"cash":            o.NetWorth.Cash.StringFixed(2),
			"property_equity": o.NetWorth.Equity.StringFixed(2),
			"equity_percent":  o.NetWorth.EquityPercent.StringFixed(2),
			"user_equity":     o.NetWorth.UserEquity.StringFixed(2),
			"super_balance":   o.NetWorth.SuperBalance.StringFixed(2),
			"portfolio_total": o.NetWorth.PortfolioTotal.StringFixed(2),
			"total":           o.NetWorth.Total.StringFixed(2),
		},
		"goal":             o.Goal.StringFixed(2),
		"goal_progress":    o.GoalProgress.StringFixed(4),
		"forecast":         forecast,
		"snapshot_written": o.SnapshotWritten,
		"warnings":         warnings,
	})
}

// toStruct converts any JSON-encodable value (domain types carry json tags) into a Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return newStruct(doc)
}

func newStruct(doc map[string]interface{}) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return st, nil
}

// decodeStruct decodes a Struct into v through its JSON form.
// Decimal fields accept numbers or strings.
func decodeStruct(st *structpb.Struct, v interface{}) error {
	raw, err := protojson.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return json.Unmarshal(raw, v)
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidSettings):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

var _ NetWorthServiceServer = (*Server)(nil)
