package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ajaypar09/Projects/internal/models"
)

// Options configures how the sqlite database is opened
type Options struct {
	Path     string
	LogLevel logger.LogLevel
}

// Open connects to the sqlite file at opts.Path, creating its parent
// directory if needed, and migrates the schema.
func Open(opts Options) (*gorm.DB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := ensureParentDir(opts.Path); err != nil {
		return nil, err
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(dsn(opts.Path)), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log.Debug().Str("path", opts.Path).Msg("Database connected")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the cards, prices and sales tables
func Migrate(db *gorm.DB) error {
	if err := cleanupDuplicatePrices(db); err != nil {
		return fmt.Errorf("failed to clean up duplicate prices: %w", err)
	}

	if err := db.AutoMigrate(&models.Card{}, &models.PriceRecord{}, &models.SaleRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return err
	}

	log.Debug().Msg("Database migration completed")
	return nil
}

// dsn enables foreign key enforcement so price and sale rows cascade
// with their card.
func dsn(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
