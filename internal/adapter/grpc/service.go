package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "networth.v1.NetWorthService"

// Full method names, as used by interceptors and clients
const (
	MethodGetOverview    = "/" + ServiceName + "/GetOverview"
	MethodGetForecast    = "/" + ServiceName + "/GetForecast"
	MethodGetHistory     = "/" + ServiceName + "/GetHistory"
	MethodGetSettings    = "/" + ServiceName + "/GetSettings"
	MethodUpdateSettings = "/" + ServiceName + "/UpdateSettings"
)

// NetWorthServiceServer is the server API for NetWorthService.
// Payloads are google.protobuf.Struct documents; money amounts are decimal strings.
type NetWorthServiceServer interface {
	GetOverview(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetForecast(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterNetWorthServiceServer registers srv on s
func RegisterNetWorthServiceServer(s grpc.ServiceRegistrar, srv NetWorthServiceServer) {
	s.RegisterService(&NetWorthServiceDesc, srv)
}

// NetWorthServiceDesc describes NetWorthService for grpc.Server.RegisterService
var NetWorthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NetWorthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOverview", Handler: getOverviewHandler},
		{MethodName: "GetForecast", Handler: getForecastHandler},
		{MethodName: "GetHistory", Handler: getHistoryHandler},
		{MethodName: "GetSettings", Handler: getSettingsHandler},
		{MethodName: "UpdateSettings", Handler: updateSettingsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "networth/v1/networth.proto",
}

func getOverviewHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetWorthServiceServer).GetOverview(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetOverview}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetWorthServiceServer).GetOverview(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getForecastHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetWorthServiceServer).GetForecast(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetForecast}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetWorthServiceServer).GetForecast(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getHistoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetWorthServiceServer).GetHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetHistory}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetWorthServiceServer).GetHistory(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getSettingsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetWorthServiceServer).GetSettings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetSettings}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetWorthServiceServer).GetSettings(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func updateSettingsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NetWorthServiceServer).UpdateSettings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodUpdateSettings}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NetWorthServiceServer).UpdateSettings(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
