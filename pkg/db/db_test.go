package db

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/models"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func openMemory(t *testing.T) *DB {
	t.Helper()
	instance, err := Open(UseMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = instance.Close() })
	return instance
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)

	var tables = []string{"devices", "readings"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestMemoryDatabasesAreIsolated(t *testing.T) {
	common.SetTestLoggerNop()

	first := openMemory(t)
	second := openMemory(t)

	require.NoError(t, first.Conn.Create(&models.Device{Name: "sensor-A"}).Error)

	var count int64
	require.NoError(t, second.Conn.Model(&models.Device{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReadingForeignKey(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)

	err := instance.Conn.Create(&models.Reading{
		DeviceID:    4242,
		Temperature: 20,
		Humidity:    50,
		Timestamp:   time.Now(),
	}).Error
	require.Error(t, err, "FOREIGN KEY constraint failed")

	device := models.Device{Name: "sensor-A"}
	require.NoError(t, instance.Conn.Create(&device).Error)

	err = instance.Conn.Create(&models.Reading{
		DeviceID:    device.ID,
		Temperature: 20,
		Humidity:    50,
		Timestamp:   time.Now(),
	}).Error
	require.NoError(t, err)
}

func TestDuplicateDeviceNamesAllowed(t *testing.T) {
	common.SetTestLoggerNop()

	instance := openMemory(t)

	a := models.Device{Name: "twin"}
	b := models.Device{Name: "twin"}
	require.NoError(t, instance.Conn.Create(&a).Error)
	require.NoError(t, instance.Conn.Create(&b).Error)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestOpen_NotFoundIsNotPrinted(t *testing.T) {
	common.SetTestLoggerNop()

	var buf bytes.Buffer
	saved := gormlogger.Default
	gormlogger.Default = gormlogger.New(log.New(&buf, "", 0), gormlogger.Config{LogLevel: gormlogger.Info})
	t.Cleanup(func() { gormlogger.Default = saved })

	instance := openMemory(t)

	var device models.Device
	err := instance.Conn.Take(&device, "id = ?", 4242).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())
}

func TestOpen_FailedMigrationReturnsError(t *testing.T) {
	common.SetTestLoggerNop()

	path := filepath.Join(t.TempDir(), "readonly.sqlite3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	instance, err := Open(sqlite.Open("file:" + path + "?mode=ro"))
	require.Error(t, err)
	assert.Nil(t, instance)
	assert.Contains(t, err.Error(), "migrate database")
}
