// Package influx mirrors stored readings into an InfluxDB bucket.
package influx

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"go.uber.org/zap"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/config"
	"liyu1981.xyz/telemetry-service/pkg/models"
	"liyu1981.xyz/telemetry-service/pkg/telemetry"
)

const Measurement = "readings"

var ErrDisabled = errors.New("influx sink is not configured")

// Sink writes one point per reading: measurement readings, tags device_id and
// device_name, fields temperature and humidity, at the reading timestamp.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

var _ telemetry.ReadingSink = (*Sink)(nil)

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameInfluxSink)
}

func NewSink(cfg config.InfluxConfig) (*Sink, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Sink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		bucket:   cfg.Bucket,
	}, nil
}

func (s *Sink) WriteReading(ctx context.Context, device *models.Device, reading *models.Reading) error {
	p := influxdb2.NewPoint(
		Measurement,
		map[string]string{
			"device_id":   strconv.FormatUint(uint64(device.ID), 10),
			"device_name": device.Name,
		},
		map[string]any{
			"temperature": reading.Temperature,
			"humidity":    reading.Humidity,
		},
		reading.Timestamp,
	)

	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("write reading %d to bucket %s: %w", reading.ID, s.bucket, err)
	}

	logger().Debug("Mirrored reading",
		zap.String("bucket", s.bucket),
		zap.Uint("device_id", device.ID),
		zap.Uint("reading_id", reading.ID),
	)
	return nil
}

func (s *Sink) Close() {
	s.client.Close()
}
