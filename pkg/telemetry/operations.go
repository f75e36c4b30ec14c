package telemetry

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/metrics"
	"liyu1981.xyz/telemetry-service/pkg/models"
)

// mirrorTimeout bounds the extra latency a slow sink adds to ingestion.
const mirrorTimeout = 2 * time.Second

func reject(operation string, err error) error {
	metrics.IncRejected(operation, Reason(err))
	return err
}

// RegisterDevice creates a new device row. Names are not deduplicated.
func (t *Telemetry) RegisterDevice(ctx context.Context, req RegisterDeviceRequest) (*RegisterDeviceResponse, error) {
	const op = metrics.OperationRegisterDevice

	if err := t.authorize(op, req.APIKey); err != nil {
		return nil, reject(op, err)
	}

	if issues := registerDeviceSchema.Validate(&req); issues != nil {
		return nil, reject(op, ErrDeviceNameRequired)
	}

	if t.Device == nil {
		return nil, fmt.Errorf("device service not available")
	}

	device, err := t.Device.RegisterDevice(ctx, req.DeviceName)
	if err != nil {
		return nil, fmt.Errorf("register device %q: %w", req.DeviceName, err)
	}

	metrics.IncDevicesRegistered()

	return &RegisterDeviceResponse{
		Message:  "Device registered successfully!",
		DeviceID: device.ID,
	}, nil
}

// UpdateData stores one reading for the device called req.DeviceName.
func (t *Telemetry) UpdateData(ctx context.Context, req UpdateDataRequest) (*MessageResponse, error) {
	const op = metrics.OperationUpdateData

	if err := t.authorize(op, req.APIKey); err != nil {
		return nil, reject(op, err)
	}

	if issues := updateDataSchema.Validate(&req); issues != nil {
		return nil, reject(op, ErrFieldsRequired)
	}

	temperature, err := parseReadingValue(req.Temperature)
	if err != nil {
		return nil, reject(op, err)
	}
	humidity, err := parseReadingValue(req.Humidity)
	if err != nil {
		return nil, reject(op, err)
	}

	if t.Device == nil || t.Reading == nil {
		return nil, fmt.Errorf("device or reading service not available")
	}

	device, err := t.Device.FindDeviceByName(ctx, req.DeviceName)
	if err != nil {
		if IsClientError(err) {
			return nil, reject(op, err)
		}
		return nil, fmt.Errorf("find device %q: %w", req.DeviceName, err)
	}

	reading, err := t.Reading.AddReading(ctx, device.ID, temperature, humidity)
	if err != nil {
		return nil, fmt.Errorf("store reading for device %d: %w", device.ID, err)
	}

	metrics.IncReadingsIngested()
	t.mirror(ctx, device, reading)

	return &MessageResponse{
		Message: fmt.Sprintf("Data updated successfully for device %s!", device.Name),
	}, nil
}

// GetData lists every reading of one device. It takes no credential.
func (t *Telemetry) GetData(ctx context.Context, req GetDataRequest) (*GetDataResponse, error) {
	const op = metrics.OperationGetData

	deviceID, err := strconv.ParseUint(strings.TrimSpace(req.DeviceID), 10, 0)
	if err != nil {
		// an id that cannot name a row names no device
		return nil, reject(op, ErrDeviceNotFound)
	}

	if t.Device == nil || t.Reading == nil {
		return nil, fmt.Errorf("device or reading service not available")
	}

	device, err := t.Device.GetDevice(ctx, uint(deviceID))
	if err != nil {
		if IsClientError(err) {
			return nil, reject(op, err)
		}
		return nil, fmt.Errorf("get device %d: %w", deviceID, err)
	}

	readings, err := t.Reading.GetDeviceReadings(ctx, device.ID)
	if err != nil {
		return nil, fmt.Errorf("get readings for device %d: %w", device.ID, err)
	}

	return &GetDataResponse{
		DeviceName: device.Name,
		Data: common.Mapper(readings, func(r models.Reading) ReadingEntry {
			return ReadingEntry{
				Temperature: r.Temperature,
				Humidity:    r.Humidity,
				Timestamp:   r.Timestamp,
			}
		}),
	}, nil
}

// SetLimiter replaces the token bucket of one device name.
func (t *Telemetry) SetLimiter(ctx context.Context, req SetLimiterRequest) (*MessageResponse, error) {
	const op = metrics.OperationSetLimiter

	if err := t.authorize(op, req.APIKey); err != nil {
		return nil, reject(op, err)
	}

	if issues := setLimiterSchema.Validate(&req); issues != nil || req.Rate < 0 || req.Burst < 0 {
		return nil, reject(op, ErrInvalidLimiter)
	}

	if t.Limiters == nil {
		return &MessageResponse{Message: "RateLimiterStore is not used. No effect."}, nil
	}

	t.Limiters.SetLimiter(req.DeviceName, rate.Limit(req.Rate), req.Burst)

	return &MessageResponse{
		Message: fmt.Sprintf("Limiter updated for device %s", req.DeviceName),
	}, nil
}

// parseReadingValue accepts decimal float literals, surrounding blanks
// included. Hex literals are not decimal, and non-finite values cannot be
// rendered as JSON; both are rejected.
func parseReadingValue(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if isHexLiteral(text) {
		return 0, ErrInvalidDataFormat
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidDataFormat
	}
	return v, nil
}

func isHexLiteral(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

func (t *Telemetry) mirror(ctx context.Context, device *models.Device, reading *models.Reading) {
	if t.Sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
	defer cancel()

	if err := t.Sink.WriteReading(ctx, device, reading); err != nil {
		metrics.IncSinkErrors()
		readingLogger().Warn("Failed to mirror reading",
			zap.Uint("device_id", device.ID),
			zap.Uint("reading_id", reading.ID),
			zap.Error(err),
		)
	}
}
