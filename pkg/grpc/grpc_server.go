package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

// Requests and responses are google.protobuf.Struct values carrying the same
// keys as the HTTP query parameters and JSON bodies.

const ServiceName = "telemetry.TelemetryService"

const (
	FullMethodRegisterDevice = "/" + ServiceName + "/RegisterDevice"
	FullMethodUpdateData     = "/" + ServiceName + "/UpdateData"
	FullMethodGetData        = "/" + ServiceName + "/GetData"
	FullMethodSetLimiter     = "/" + ServiceName + "/SetLimiter"
)

// WriteMethods are the methods guarded by the per-device limiter.
var WriteMethods = []string{FullMethodRegisterDevice, FullMethodUpdateData}

type TelemetryServiceServer interface {
	RegisterDevice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type TelemetryServer struct {
	Telemetry *telemetry.Telemetry
}

var _ TelemetryServiceServer = (*TelemetryServer)(nil)

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameGrpcServer)
}

func RegisterTelemetryServiceServer(s grpc.ServiceRegistrar, srv TelemetryServiceServer) {
	s.RegisterService(&TelemetryServiceDesc, srv)
}

func unaryHandler(
	fullMethod string,
	call func(TelemetryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TelemetryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TelemetryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TelemetryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TelemetryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterDevice",
			Handler:    unaryHandler(FullMethodRegisterDevice, TelemetryServiceServer.RegisterDevice),
		},
		{
			MethodName: "UpdateData",
			Handler:    unaryHandler(FullMethodUpdateData, TelemetryServiceServer.UpdateData),
		},
		{
			MethodName: "GetData",
			Handler:    unaryHandler(FullMethodGetData, TelemetryServiceServer.GetData),
		},
		{
			MethodName: "SetLimiter",
			Handler:    unaryHandler(FullMethodSetLimiter, TelemetryServiceServer.SetLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telemetry.proto",
}

type TelemetryServiceClient interface {
	RegisterDevice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateData(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetData(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type telemetryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTelemetryServiceClient(cc grpc.ClientConnInterface) TelemetryServiceClient {
	return &telemetryServiceClient{cc}
}

func (c *telemetryServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telemetryServiceClient) RegisterDevice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FullMethodRegisterDevice, in, opts...)
}

func (c *telemetryServiceClient) UpdateData(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FullMethodUpdateData, in, opts...)
}

func (c *telemetryServiceClient) GetData(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FullMethodGetData, in, opts...)
}

func (c *telemetryServiceClient) SetLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FullMethodSetLimiter, in, opts...)
}
