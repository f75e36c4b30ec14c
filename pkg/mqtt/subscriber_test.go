package mqtt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/config"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
	"liyu1981.xyz/telemetry-service/pkg/testutil"
)

func setupSubscriber(t *testing.T) (*Subscriber, *telemetry.Telemetry) {
	tel := telemetry.New(testutil.NewMemoryDB(t), testutil.TestAPIKey)
	cfg := config.Default().MQTT
	return NewSubscriber(cfg, tel), tel
}

func TestHandleMessage(t *testing.T) {
	common.SetTestLoggerNop()

	sub, tel := setupSubscriber(t)
	ctx := context.Background()

	reg, err := tel.RegisterDevice(ctx, telemetry.RegisterDeviceRequest{APIKey: "5588", DeviceName: "sensor-A"})
	require.NoError(t, err)

	err = sub.HandleMessage(ctx, "telemetry/readings",
		[]byte(`{"API-Key":"5588","device_name":"sensor-A","temperature":21.5,"humidity":"40.2"}`))
	require.NoError(t, err)

	got, err := tel.GetData(ctx, telemetry.GetDataRequest{DeviceID: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), reg.DeviceID)
	require.Len(t, got.Data, 1)
	assert.Equal(t, 21.5, got.Data[0].Temperature)
	assert.Equal(t, 40.2, got.Data[0].Humidity)
}

func TestHandleMessage_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	sub, tel := setupSubscriber(t)
	ctx := context.Background()

	_, err := tel.RegisterDevice(ctx, telemetry.RegisterDeviceRequest{APIKey: "5588", DeviceName: "sensor-A"})
	require.NoError(t, err)

	cases := []struct {
		payload string
		want    error
	}{
		{`not json`, ErrInvalidPayload},
		{`[1,2]`, ErrInvalidPayload},
		{`{"API-Key":"0000","device_name":"sensor-A","temperature":1,"humidity":2}`, telemetry.ErrUnauthorized},
		{`{"device_name":"sensor-A","temperature":1,"humidity":2}`, telemetry.ErrUnauthorized},
		{`{"API-Key":"5588","device_name":"sensor-A","temperature":1}`, telemetry.ErrFieldsRequired},
		{`{"API-Key":"5588","device_name":"sensor-A","temperature":true,"humidity":2}`, telemetry.ErrFieldsRequired},
		{`{"API-Key":"5588","device_name":"sensor-A","temperature":"hot","humidity":2}`, telemetry.ErrInvalidDataFormat},
		{`{"API-Key":"5588","device_name":"ghost","temperature":1,"humidity":2}`, telemetry.ErrDeviceNotFound},
	}

	for _, c := range cases {
		err := sub.HandleMessage(ctx, "telemetry/readings", []byte(c.payload))
		assert.ErrorIs(t, err, c.want, c.payload)
	}

	got, err := tel.GetData(ctx, telemetry.GetDataRequest{DeviceID: "1"})
	require.NoError(t, err)
	assert.Len(t, got.Data, 0)
}

func TestHandleMessage_RateLimited(t *testing.T) {
	common.SetTestLoggerNop()

	sub, tel := setupSubscriber(t)
	tel.WithLimiters(telemetry.NewRateLimiterStore(0.001, 1))
	ctx := context.Background()

	_, err := tel.RegisterDevice(ctx, telemetry.RegisterDeviceRequest{APIKey: "5588", DeviceName: "sensor-A"})
	require.NoError(t, err)

	payload := []byte(`{"API-Key":"5588","device_name":"sensor-A","temperature":1,"humidity":2}`)
	require.NoError(t, sub.HandleMessage(ctx, "t", payload))
	assert.ErrorIs(t, sub.HandleMessage(ctx, "t", payload), telemetry.ErrRateLimited)
}

func TestHandleMessage_WrongKeyDoesNotSpendBudget(t *testing.T) {
	common.SetTestLoggerNop()

	sub, tel := setupSubscriber(t)
	store := telemetry.NewRateLimiterStore(0.001, 1)
	tel.WithLimiters(store)
	ctx := context.Background()

	_, err := tel.RegisterDevice(ctx, telemetry.RegisterDeviceRequest{APIKey: "5588", DeviceName: "sensor-A"})
	require.NoError(t, err)

	bad := []byte(`{"API-Key":"0000","device_name":"sensor-A","temperature":1,"humidity":2}`)
	for range 3 {
		assert.ErrorIs(t, sub.HandleMessage(ctx, "t", bad), telemetry.ErrUnauthorized)
	}
	assert.Equal(t, 0, store.Len())

	good := []byte(`{"API-Key":"5588","device_name":"sensor-A","temperature":1,"humidity":2}`)
	require.NoError(t, sub.HandleMessage(ctx, "t", good))
	assert.ErrorIs(t, sub.HandleMessage(ctx, "t", good), telemetry.ErrRateLimited)
}

func TestDecodeReading(t *testing.T) {
	req, err := decodeReading([]byte(`{"API-Key":"k","device_name":"d","temperature":1e2,"humidity":0.30000000000000004}`))
	require.NoError(t, err)
	assert.Equal(t, "k", req.APIKey)
	assert.Equal(t, "d", req.DeviceName)
	assert.Equal(t, "1e2", req.Temperature)
	assert.Equal(t, "0.30000000000000004", req.Humidity)
}

func TestClose_NotStarted(t *testing.T) {
	sub, _ := setupSubscriber(t)
	assert.NotPanics(t, sub.Close)
}
