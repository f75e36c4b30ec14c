package db

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"liyu1981.xyz/telemetry-service/pkg/common"
	"liyu1981.xyz/telemetry-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

// Open connects with the given dialector and migrates the schema. Every call
// returns an independent handle; callers own it and should Close it.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: SilentLogger()})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	instance := &DB{Conn: conn}

	if err := instance.prepare(); err != nil {
		_ = instance.Close()
		return nil, err
	}

	return instance, nil
}

// SilentLogger keeps gorm off stdout; failures reach the zap logs through the
// errors the callers return.
func SilentLogger() gormlogger.Interface {
	return gormlogger.Default.LogMode(gormlogger.Silent)
}

func (d *DB) prepare() error {
	logger := common.GetLogger()

	if err := d.Conn.AutoMigrate(&models.Device{}, &models.Reading{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	if err := d.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return fmt.Errorf("set sqlite journal mode: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UseSqliteDialector opens the file store at dbPath. Foreign keys are enabled
// per connection through the DSN so every pooled connection enforces them.
func UseSqliteDialector(dbPath string) gorm.Dialector {
	return sqlite.Open(dbPath + "?_foreign_keys=on&_busy_timeout=5000")
}

// UseMemorySqliteDialector returns a fresh named in-memory database, shared by
// the connections of one pool but isolated from other calls.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()))
}
