package telemetry

import (
	"testing"

	"go.uber.org/mock/gomock"
	"liyu1981.xyz/telemetry-service/pkg/telemetry/mocks"
	"liyu1981.xyz/telemetry-service/pkg/testutil"
)

func GetMockTelemetryWithMemorySqliteDialector(t *testing.T, useMockIDevice, useMockIReading bool) (
	*gomock.Controller,
	*Telemetry,
	*mocks.MockIDevice,
	*mocks.MockIReading,
) {
	ctrl := gomock.NewController(t)

	mockIDevice := mocks.NewMockIDevice(ctrl)
	mockIReading := mocks.NewMockIReading(ctrl)

	tel := New(testutil.NewMemoryDB(t), testutil.TestAPIKey)

	deviceService := tel.GetIDevice()
	if useMockIDevice {
		deviceService = mockIDevice
	}

	readingService := tel.GetIReading()
	if useMockIReading {
		readingService = mockIReading
	}

	tel.WithServices(ServiceOpts{
		Device:  deviceService,
		Reading: readingService,
	})

	return ctrl, tel, mockIDevice, mockIReading
}
