package grpc

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

// stringField reads key from s as the text an HTTP caller would have sent.
// Numbers are rendered without trailing zeros; anything else reads as absent.
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func numberField(s *structpb.Struct, key string) float64 {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_StringValue:
		f, _ := strconv.ParseFloat(k.StringValue, 64)
		return f
	default:
		return 0
	}
}

// toStruct renders resp with its JSON field names.
func toStruct(resp any) (*structpb.Struct, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func toStatus(method string, err error) error {
	switch telemetry.Reason(err) {
	case "unauthorized":
		return status.Error(codes.PermissionDenied, err.Error())
	case "not_found":
		return status.Error(codes.NotFound, err.Error())
	case "rate_limited":
		return status.Error(codes.ResourceExhausted, err.Error())
	case "internal":
		logger().Error("Request failed", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	default:
		return status.Error(codes.InvalidArgument, err.Error())
	}
}

func reply(method string, resp any, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(method, err)
	}
	out, err := toStruct(resp)
	if err != nil {
		return nil, toStatus(method, err)
	}
	return out, nil
}

func (s *TelemetryServer) RegisterDevice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.Telemetry.RegisterDevice(ctx, telemetry.RegisterDeviceRequest{
		APIKey:     stringField(req, common.ParamAPIKey),
		DeviceName: stringField(req, common.ParamDeviceName),
	})
	return reply(FullMethodRegisterDevice, resp, err)
}

func (s *TelemetryServer) UpdateData(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.Telemetry.UpdateData(ctx, telemetry.UpdateDataRequest{
		APIKey:      stringField(req, common.ParamAPIKey),
		DeviceName:  stringField(req, common.ParamDeviceName),
		Temperature: stringField(req, common.ParamTemperature),
		Humidity:    stringField(req, common.ParamHumidity),
	})
	return reply(FullMethodUpdateData, resp, err)
}

func (s *TelemetryServer) GetData(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.Telemetry.GetData(ctx, telemetry.GetDataRequest{
		DeviceID: stringField(req, common.ParamDeviceID),
	})
	return reply(FullMethodGetData, resp, err)
}

func (s *TelemetryServer) SetLimiter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.Telemetry.SetLimiter(ctx, telemetry.SetLimiterRequest{
		APIKey:     stringField(req, common.ParamAPIKey),
		DeviceName: stringField(req, common.ParamDeviceName),
		Rate:       numberField(req, "rate"),
		Burst:      int(numberField(req, "burst")),
	})
	return reply(FullMethodSetLimiter, resp, err)
}
