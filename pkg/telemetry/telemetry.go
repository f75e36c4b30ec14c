package telemetry

import (
	"context"

	"liyu1981.xyz/telemetry-service/pkg/db"
	"liyu1981.xyz/telemetry-service/pkg/models"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mocks.go -package=mocks

type IDevice interface {
	RegisterDevice(ctx context.Context, name string) (*models.Device, error)
	FindDeviceByName(ctx context.Context, name string) (*models.Device, error)
	GetDevice(ctx context.Context, deviceID uint) (*models.Device, error)
}

type IReading interface {
	AddReading(ctx context.Context, deviceID uint, temperature, humidity float64) (*models.Reading, error)
	GetDeviceReadings(ctx context.Context, deviceID uint) ([]models.Reading, error)
}

// ReadingSink receives a copy of every stored reading. Failures are logged by
// the caller and never undo the stored row.
type ReadingSink interface {
	WriteReading(ctx context.Context, device *models.Device, reading *models.Reading) error
}

type Telemetry struct {
	Db       db.DB
	Keys     *KeyChecker
	Limiters *RateLimiterStore
	Device   IDevice
	Reading  IReading
	Sink     ReadingSink
}

type ServiceOpts struct {
	Device  IDevice
	Reading IReading
	Sink    ReadingSink
}

// New wires the default storage-backed services around conn. apiKey is the
// shared secret required by write operations.
func New(conn *db.DB, apiKey string) *Telemetry {
	t := &Telemetry{
		Db:   *conn,
		Keys: NewKeyChecker(apiKey),
	}
	return t.WithServices(ServiceOpts{
		Device:  t.GetIDevice(),
		Reading: t.GetIReading(),
	})
}

func (t *Telemetry) WithServices(opts ServiceOpts) *Telemetry {
	if opts.Device != nil {
		t.Device = opts.Device
	}
	if opts.Reading != nil {
		t.Reading = opts.Reading
	}
	if opts.Sink != nil {
		t.Sink = opts.Sink
	}
	return t
}

func (t *Telemetry) WithLimiters(store *RateLimiterStore) *Telemetry {
	t.Limiters = store
	return t
}

// CheckDeviceLimiter reports whether a write for deviceName may proceed.
// Without a limiter store everything is allowed.
func (t *Telemetry) CheckDeviceLimiter(deviceName string) bool {
	if t.Limiters == nil {
		return true
	}
	return t.Limiters.Allow(deviceName)
}

// AdmitWrite reports whether a write may go on to its operation. Only callers
// holding the shared key spend a token; anyone else is let through so the
// operation rejects them as unauthorized without touching the bucket.
func (t *Telemetry) AdmitWrite(apiKey, deviceName string) bool {
	if deviceName == "" || t.Keys.Check(apiKey) != nil {
		return true
	}
	return t.CheckDeviceLimiter(deviceName)
}
