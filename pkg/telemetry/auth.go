package telemetry

import (
	"crypto/subtle"

	"go.uber.org/zap"
	"liyu1981.xyz/telemetry-service/pkg/common"
)

// KeyChecker compares caller credentials against the one shared secret.
// An empty secret matches nothing.
type KeyChecker struct {
	secret []byte
}

func NewKeyChecker(secret string) *KeyChecker {
	return &KeyChecker{secret: []byte(secret)}
}

func (k *KeyChecker) Check(key string) error {
	if k == nil || len(k.secret) == 0 {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(key), k.secret) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func (t *Telemetry) authorize(operation, key string) error {
	if err := t.Keys.Check(key); err != nil {
		common.GetLoggerWith(
			common.LoggerNameTelemetryCore,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryAuth),
		).Warn("Rejected credential", zap.String("operation", operation), zap.Bool("key_present", key != ""))
		return err
	}
	return nil
}
