package telemetry

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/models"
)

func deviceLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameTelemetryCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDevice),
	)
}

func (t *Telemetry) registerDevice(ctx context.Context, name string) (*models.Device, error) {
	logger := deviceLogger()

	device := models.Device{Name: name}

	logger.Info("Received device registration", zap.String("name", name))

	if err := t.Db.Conn.WithContext(ctx).Create(&device).Error; err != nil {
		return nil, err
	}

	logger.Info("Registered device", zap.Uint("device_id", device.ID), zap.String("name", device.Name))

	return &device, nil
}

// findDeviceByName resolves duplicate names to the lowest id.
func (t *Telemetry) findDeviceByName(ctx context.Context, name string) (*models.Device, error) {
	var device models.Device
	err := t.Db.Conn.WithContext(ctx).
		Where("name = ?", name).
		Order("id asc").
		Take(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (t *Telemetry) getDevice(ctx context.Context, deviceID uint) (*models.Device, error) {
	var device models.Device
	err := t.Db.Conn.WithContext(ctx).Take(&device, "id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

type IDeviceImpl struct {
	telemetry *Telemetry
}

func (id *IDeviceImpl) RegisterDevice(ctx context.Context, name string) (*models.Device, error) {
	return id.telemetry.registerDevice(ctx, name)
}

func (id *IDeviceImpl) FindDeviceByName(ctx context.Context, name string) (*models.Device, error) {
	return id.telemetry.findDeviceByName(ctx, name)
}

func (id *IDeviceImpl) GetDevice(ctx context.Context, deviceID uint) (*models.Device, error) {
	return id.telemetry.getDevice(ctx, deviceID)
}

func (t *Telemetry) GetIDevice() IDevice {
	return &IDeviceImpl{telemetry: t}
}
