package main

import (
	"os"

	"github.com/taskboard-simple/config"
	"github.com/taskboard-simple/database"
	"github.com/taskboard-simple/logging"
)

// Migrates the schema of TARGET_DATABASE_URL (or DATABASE_URL) and, when
// SOURCE_DATABASE_URL is set, copies every row from the source into it.
func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel, cfg.LogFile)
	log := logging.Logger

	log.Info("Starting database migration...")

	targetDriver := config.GetEnv("TARGET_DB_DRIVER", cfg.DBDriver)
	targetDBURL := config.GetEnv("TARGET_DATABASE_URL", cfg.DatabaseURL)

	targetDB, err := database.NewDBConnection("target", targetDriver, targetDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to target database: %v", err)
	}

	if err := targetDB.Migrate(); err != nil {
		log.Fatalf("Failed to migrate target database schema: %v", err)
	}

	sourceDBURL := os.Getenv("SOURCE_DATABASE_URL")
	if sourceDBURL == "" {
		log.Info("SOURCE_DATABASE_URL not set, schema migration only")
		return
	}

	sourceDriver := config.GetEnv("SOURCE_DB_DRIVER", cfg.DBDriver)
	sourceDB, err := database.NewDBConnection("source", sourceDriver, sourceDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to source database: %v", err)
	}

	if err := database.MigrateDataBetweenDatabases(sourceDB, targetDB); err != nil {
		log.Fatalf("Data migration failed: %v", err)
	}

	log.Info("Database migration completed successfully!")
}
