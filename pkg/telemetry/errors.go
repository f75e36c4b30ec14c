package telemetry

import "errors"

// The messages double as the public error bodies.
var (
	ErrUnauthorized   = errors.New("Unauthorized")
	ErrDeviceNotFound = errors.New("Device not found")
	ErrRateLimited    = errors.New("rate limit exceeded")
)

type ValidationReason string

const (
	ReasonMissingDeviceName ValidationReason = "missing_device_name"
	ReasonMissingFields     ValidationReason = "missing_fields"
	ReasonInvalidFormat     ValidationReason = "invalid_format"
	ReasonInvalidLimiter    ValidationReason = "invalid_limiter"
)

type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrDeviceNameRequired = &ValidationError{
		Reason:  ReasonMissingDeviceName,
		Message: "Device name is required",
	}
	ErrFieldsRequired = &ValidationError{
		Reason:  ReasonMissingFields,
		Message: "All fields (device_name, temperature, humidity) are required",
	}
	ErrInvalidDataFormat = &ValidationError{
		Reason:  ReasonInvalidFormat,
		Message: "Invalid data format",
	}
	ErrInvalidLimiter = &ValidationError{
		Reason:  ReasonInvalidLimiter,
		Message: "device_name, rate and burst are required",
	}
)

// Reason gives a short label for err, used for metrics.
func Reason(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrDeviceNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.As(err, &verr):
		return string(verr.Reason)
	default:
		return "internal"
	}
}

// IsClientError is true for errors caused by the request rather than the
// service.
func IsClientError(err error) bool {
	r := Reason(err)
	return r != "" && r != "internal"
}
