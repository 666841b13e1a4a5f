package database

import (
	"fmt"
	"time"

	"plumberry-inventory/internal/model"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private SQLite database that lives only as long as its connection.
const MemoryDSN = "file::memory:"

// ConnectMemoryDB opens an in-memory SQLite database through gorm and migrates the
// ledger tables into it. Nothing is written to disk. With a non-nil sqlLog every
// statement is logged through it at debug level; with nil gorm stays silent.
func ConnectMemoryDB(sqlLog *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if sqlLog != nil {
		stdLog, err := zap.NewStdLogAt(sqlLog.Named("gorm"), zapcore.DebugLevel)
		if err != nil {
			return nil, err
		}
		gormLogger = logger.New(stdLog, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	}

	db, err := gorm.Open(sqlite.Open(MemoryDSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// Every new connection to ":memory:" is a fresh, empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&model.Product{}, &model.Transaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
