package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestLoggingCaptureWithName(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	GetLoggerWith(LoggerNameTelemetryCore, zap.String(LoggerFieldCategory, LoggerCategoryDevice)).
		Debug("below capture level")
	GetLoggerWith(LoggerNameTelemetryCore, zap.String(LoggerFieldCategory, LoggerCategoryDevice)).
		Info("Device registered")

	out := buf.String()
	assert.NotContains(t, out, "below capture level")
	assert.Contains(t, out, `"logger":"telemetry_core"`)
	assert.Contains(t, out, `"category":"device"`)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV(" a, ,b ,"))
	assert.Equal(t, []string{}, SplitCSV(""))
}

func TestMapper(t *testing.T) {
	out := Mapper([]int{1, 2, 3}, func(i int) string { return strings.Repeat("x", i) })
	assert.Equal(t, []string{"x", "xx", "xxx"}, out)

	empty := Mapper([]int{}, func(i int) int { return i })
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}
