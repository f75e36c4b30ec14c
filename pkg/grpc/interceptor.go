package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

// CreateRateLimitInterceptor applies the per-device limiter to the listed
// methods. Calls without a device name or a valid key pass through for the
// operation to reject.
func (s *TelemetryServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			if r, ok := req.(*structpb.Struct); ok {
				apiKey := stringField(r, common.ParamAPIKey)
				deviceName := stringField(r, common.ParamDeviceName)
				if !s.Telemetry.AdmitWrite(apiKey, deviceName) {
					return nil, status.Error(codes.ResourceExhausted, telemetry.ErrRateLimited.Error())
				}
			}
		}

		return handler(ctx, req)
	}
}
