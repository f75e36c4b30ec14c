package telemetry

import (
	"time"

	z "github.com/Oudwins/zog"
)

// Request fields carry the raw text the caller sent. Transports only extract
// them; every check happens inside the operation so the check order is the
// same for HTTP, gRPC and MQTT.

type RegisterDeviceRequest struct {
	APIKey     string `zog:"API-Key" json:"API-Key"`
	DeviceName string `zog:"device_name" json:"device_name"`
}

type UpdateDataRequest struct {
	APIKey      string `zog:"API-Key" json:"API-Key"`
	DeviceName  string `zog:"device_name" json:"device_name"`
	Temperature string `zog:"temperature" json:"temperature"`
	Humidity    string `zog:"humidity" json:"humidity"`
}

type GetDataRequest struct {
	DeviceID string `zog:"device_id" json:"device_id"`
}

type SetLimiterRequest struct {
	APIKey     string  `zog:"API-Key" json:"API-Key"`
	DeviceName string  `zog:"device_name" json:"device_name"`
	Rate       float64 `zog:"rate" json:"rate"`
	Burst      int     `zog:"burst" json:"burst"`
}

// Input shapes: everything optional, used to lift raw values off a request.
var (
	RegisterDeviceInput = z.Struct(z.Shape{
		"APIKey":     z.String(),
		"DeviceName": z.String(),
	})

	UpdateDataInput = z.Struct(z.Shape{
		"APIKey":      z.String(),
		"DeviceName":  z.String(),
		"Temperature": z.String(),
		"Humidity":    z.String(),
	})

	GetDataInput = z.Struct(z.Shape{
		"DeviceID": z.String(),
	})

	SetLimiterInput = z.Struct(z.Shape{
		"DeviceName": z.String(),
		"Rate":       z.Float64(),
		"Burst":      z.Int(),
	})
)

var registerDeviceSchema = z.Struct(z.Shape{
	"DeviceName": z.String().Required(),
})

var updateDataSchema = z.Struct(z.Shape{
	"DeviceName":  z.String().Required(),
	"Temperature": z.String().Required(),
	"Humidity":    z.String().Required(),
})

var setLimiterSchema = z.Struct(z.Shape{
	"DeviceName": z.String().Required(),
	"Rate":       z.Float64().Required(),
	"Burst":      z.Int().Required(),
})

type RegisterDeviceResponse struct {
	Message  string `json:"message"`
	DeviceID uint   `json:"device_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ReadingEntry struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

type GetDataResponse struct {
	DeviceName string         `json:"device_name"`
	Data       []ReadingEntry `json:"data"`
}
