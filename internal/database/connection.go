// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

var DB *gorm.DB

// ErrSchemaMissing is returned when the tables have not been migrated yet.
var ErrSchemaMissing = errors.New("database schema missing, run with DB_AUTO_MIGRATE=true or apply migrations")

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		// Unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return DB, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// RunMigrations creates or updates every table the storefront persists. It
// only relies on portable DDL so the same path runs against SQLite in tests.
func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.WarrantyRegistration{},
		&models.Lead{},
		&models.Feedback{},
		&models.AdminUser{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		// Warranty
		"CREATE INDEX IF NOT EXISTS idx_warranty_email ON warranty_registrations(email)",
		"CREATE INDEX IF NOT EXISTS idx_warranty_created_at ON warranty_registrations(created_at DESC)",

		// Leads and feedback
		"CREATE INDEX IF NOT EXISTS idx_leads_source_status ON leads(source, status)",
		"CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at DESC)",

		// Audit
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_admin_action ON audit_logs(admin_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedAdmin creates the configured admin account when no admin exists yet.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if !db.Migrator().HasTable(&models.AdminUser{}) {
		return ErrSchemaMissing
	}

	var count int64
	if err := db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if cfg.SeedPassword == "" {
		logrus.Warn("No admin account exists and ADMIN_PASSWORD is empty, skipping admin seed")
		return nil
	}

	admin := &models.AdminUser{
		Email:  cfg.SeedEmail,
		Name:   cfg.SeedName,
		Role:   models.AdminRoleAdmin,
		Active: true,
	}
	if err := admin.SetPassword(cfg.SeedPassword); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.WithField("email", admin.Email).Info("Default admin user created")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit().Error
}
