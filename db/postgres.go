// api/db/postgres.go
package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rollcall-app/api/config"
	logger "github.com/rollcall-app/api/logging"
)

// InitPostgres opens the relational store and verifies connectivity. The
// returned *gorm.DB owns a shared connection pool safe for concurrent use.
func InitPostgres(cfg config.PostgresConfiguration) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access Postgres pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	logger.Info("Successfully connected to Postgres")
	return gdb, nil
}

// ClosePostgres releases the underlying connection pool.
func ClosePostgres(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Error accessing Postgres pool on close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing Postgres connection", zap.Error(err))
	} else {
		logger.Info("Postgres connection closed successfully")
	}
}
