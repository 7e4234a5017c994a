package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskboard-simple/config"
	"github.com/taskboard-simple/logging"
	"github.com/sirupsen/logrus"
	"github.com/taskboard-simple/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models lists every table managed by AutoMigrate, parents first
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
	}
}

// Open connects to postgres or sqlite and configures the pool
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(withForeignKeys(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	if driver == "sqlite" {
		// sqlite serialises writers; a single connection also keeps
		// in-memory databases alive for the lifetime of the pool
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// gormWriter forwards gorm's log lines to the shared logrus logger
type gormWriter struct {
	entry *logrus.Entry
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.entry.Warnf(format, args...)
}

// newGormLogger logs slow queries and errors through logging.Logger so they
// follow LOG_FILE and its rotation
func newGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		gormWriter{entry: logging.Logger.WithField("component", "gorm")},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// Initialize sets up the global connection from the configuration
func Initialize(cfg config.Config) error {
	db, err := Open(cfg.DBDriver, cfg.DatabaseURL, logger.Warn)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db

	logging.Logger.WithField("driver", cfg.DBDriver).Info("connected to database")

	if cfg.DBDriver == "postgres" {
		var version string
		if err := db.Raw("SELECT version()").Scan(&version).Error; err == nil {
			logging.Logger.WithField("version", version).Info("database version")
		}
	}
	return nil
}

// withForeignKeys turns on sqlite foreign key enforcement unless the DSN
// already configures it
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}
