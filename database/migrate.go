package database

import (
	"errors"
	"fmt"

	"github.com/taskboard-simple/logging"
	"github.com/taskboard-simple/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DBConnection represents a named database connection
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	Driver string
	DbURL  string
}

// NewDBConnection creates a new database connection
func NewDBConnection(name, driver, dbURL string) (*DBConnection, error) {
	if dbURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	db, err := Open(driver, dbURL, logger.Warn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}

	logging.Logger.WithField("name", name).Info("connected to database")

	return &DBConnection{
		DB:     db,
		Name:   name,
		Driver: driver,
		DbURL:  dbURL,
	}, nil
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	logging.Logger.WithField("name", c.Name).Info("migrating database schema")
	if err := Migrate(c.DB); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	return nil
}

// MigrateDataBetweenDatabases copies users, projects with their memberships
// and tasks from source to target, keeping primary keys.
func MigrateDataBetweenDatabases(source, target *DBConnection) error {
	if source.DbURL != "" && source.Driver == target.Driver && source.DbURL == target.DbURL {
		return fmt.Errorf("source %s and target %s point at the same database", source.Name, target.Name)
	}

	logging.Logger.Info("starting data migration from source to target")

	var users []models.User
	if err := source.DB.Order("id").Find(&users).Error; err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}
	logging.Logger.WithField("count", len(users)).Info("migrating users")

	var projects []models.Project
	if err := source.DB.Preload("Members").Order("id").Find(&projects).Error; err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	logging.Logger.WithField("count", len(projects)).Info("migrating projects")

	var tasks []models.Task
	if err := source.DB.Order("id").Find(&tasks).Error; err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	logging.Logger.WithField("count", len(tasks)).Info("migrating tasks")

	err := target.DB.Transaction(func(tx *gorm.DB) error {
		if len(users) > 0 {
			if err := tx.Omit(clause.Associations).Create(&users).Error; err != nil {
				return fmt.Errorf("failed to migrate users: %w", err)
			}
		}

		for i := range projects {
			members := projects[i].Members
			if err := tx.Omit(clause.Associations).Create(&projects[i]).Error; err != nil {
				return fmt.Errorf("failed to migrate project %d: %w", projects[i].ID, err)
			}
			for _, m := range members {
				if err := tx.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", projects[i].ID, m.ID).Error; err != nil {
					return fmt.Errorf("failed to migrate members of project %d: %w", projects[i].ID, err)
				}
			}
		}

		if len(tasks) > 0 {
			if err := tx.Omit(clause.Associations).Create(&tasks).Error; err != nil {
				return fmt.Errorf("failed to migrate tasks: %w", err)
			}
		}

		if target.Driver == "postgres" {
			// explicit ids do not advance serial sequences
			for _, table := range []string{"users", "projects", "tasks"} {
				stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table)
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("failed to reset %s sequence: %w", table, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Logger.Info("data migration completed")
	return nil
}
