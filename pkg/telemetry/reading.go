package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/models"
)

func readingLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryReading),
	)
}

func (t *Telemetry) addReading(ctx context.Context, deviceID uint, temperature, humidity float64) (*models.Reading, error) {
	logger := readingLogger()

	reading := models.Reading{
		DeviceID:    deviceID,
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   time.Now().UTC(),
	}

	logger.Info("Received reading for device", zap.Reflect("reading", reading))

	if err := t.Db.Conn.WithContext(ctx).Create(&reading).Error; err != nil {
		return nil, err
	}

	logger.Info("Stored reading for device", zap.Reflect("reading", reading))

	return &reading, nil
}

// getDeviceReadings returns readings in insertion order.
func (t *Telemetry) getDeviceReadings(ctx context.Context, deviceID uint) ([]models.Reading, error) {
	var readings []models.Reading
	err := t.Db.Conn.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("id asc").
		Find(&readings).Error
	return readings, err
}

type IReadingImpl struct {
	telemetry *Telemetry
}

func (ir *IReadingImpl) AddReading(ctx context.Context, deviceID uint, temperature, humidity float64) (*models.Reading, error) {
	return ir.telemetry.addReading(ctx, deviceID, temperature, humidity)
}

func (ir *IReadingImpl) GetDeviceReadings(ctx context.Context, deviceID uint) ([]models.Reading, error) {
	return ir.telemetry.getDeviceReadings(ctx, deviceID)
}

func (t *Telemetry) GetIReading() IReading {
	return &IReadingImpl{telemetry: t}
}
