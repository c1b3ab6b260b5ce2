package database

import (
	"errors"
	"fmt"

	"mizan/config"
	"mizan/internal/catalog"
	"mizan/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for the configured database type.
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database: empty DSN")
	}
	switch cfg.Type {
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DSN), nil
	case "sqlite", "":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("database: unsupported type %q", cfg.Type)
	}
}

func NewDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	level := gormlogger.Warn
	if cfg.LogSQL {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.Type == "sqlite" || cfg.Type == "" {
		// Serialise writers on one connection; sqlite has a single write lock.
		sqlDB.SetMaxOpenConns(1)
		_ = db.Exec("PRAGMA busy_timeout = 5000").Error
		_ = db.Exec("PRAGMA foreign_keys = ON").Error
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Action{},
		&models.UserDailyAction{},
		&models.DailyBalance{},
	)
}

// SeedActions inserts the built-in catalog when the actions table is empty.
// It returns the number of rows inserted.
func SeedActions(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Action{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	actions, err := catalog.Default()
	if err != nil {
		return 0, err
	}
	if err := db.CreateInBatches(actions, 50).Error; err != nil {
		return 0, err
	}
	return len(actions), nil
}

// Setup migrates the schema and seeds the catalog.
func Setup(db *gorm.DB, log *zap.Logger) error {
	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	n, err := SeedActions(db)
	if err != nil {
		return fmt.Errorf("seed actions: %w", err)
	}
	if n > 0 {
		log.Info("seeded action catalog", zap.Int("actions", n))
	}
	return nil
}
