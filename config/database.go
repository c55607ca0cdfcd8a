package config

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase opens the gorm connection for the postgres and sqlite drivers and
// applies the pool settings.
func OpenDatabase(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("store driver %q has no gorm dialect", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.StoreDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access %s pool: %w", cfg.StoreDriver, err)
	}
	if cfg.StoreDriver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLife)

	log.WithField("driver", cfg.StoreDriver).Info("Database connection opened.")
	return db, nil
}

func gormLogLevel(level logrus.Level) gormlogger.LogLevel {
	switch {
	case level >= logrus.TraceLevel:
		return gormlogger.Info
	case level >= logrus.InfoLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}
