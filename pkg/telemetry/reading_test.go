package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/testutil"
)

func TestAddAndGetReadings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ctx := context.Background()

	device, err := tel.Device.RegisterDevice(ctx, "sensor-A")
	require.NoError(t, err)

	before := time.Now().UTC().Add(-time.Second)
	values := [][2]float64{{21.5, 40.2}, {-3.25, 99.9}, {0, 0}}
	for _, v := range values {
		_, err := tel.Reading.AddReading(ctx, device.ID, v[0], v[1])
		require.NoError(t, err)
	}

	readings, err := tel.Reading.GetDeviceReadings(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, readings, len(values))

	for i, r := range readings {
		assert.Equal(t, values[i][0], r.Temperature)
		assert.Equal(t, values[i][1], r.Humidity)
		assert.True(t, r.Timestamp.After(before), "timestamp is server assigned")
		if i > 0 {
			assert.Greater(t, r.ID, readings[i-1].ID)
		}
	}
}

func TestAddReading_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ctx := context.Background()

	// the foreign key rejects readings for unknown devices
	_, err := tel.Reading.AddReading(ctx, 4242, 1, 1)
	require.Error(t, err)

	readings, err := tel.Reading.GetDeviceReadings(ctx, 4242)
	require.NoError(t, err)
	assert.Len(t, readings, 0)
}

func TestAddReading_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	ctrl, tel, _, _ := GetMockTelemetryWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	ctx := context.Background()
	device, err := tel.Device.RegisterDevice(ctx, "sensor-log")
	require.NoError(t, err)

	_, err = tel.Reading.AddReading(ctx, device.ID, 30.5, 55.5)
	require.NoError(t, err)

	logs := testutil.ParseLogs(buf)

	for _, msg := range []string{"Received reading for device", "Stored reading for device"} {
		_, found := testutil.FindLog(logs, func(l map[string]any) bool {
			reading, ok := l["reading"].(map[string]any)
			return ok &&
				l["logger"] == common.LoggerNameTelemetryCore &&
				l["category"] == common.LoggerCategoryReading &&
				l["msg"] == msg &&
				reading["DeviceID"] == float64(device.ID) &&
				reading["Temperature"] == 30.5 &&
				reading["Humidity"] == 55.5
		})
		assert.True(t, found, "log %q not found", msg)
	}
}
