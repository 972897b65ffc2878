package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// cleanupDuplicatePrices removes duplicate prices rows before the unique
// index is created. This runs BEFORE AutoMigrate to prevent constraint violations
// on databases written by older importers that had no unique key.
func cleanupDuplicatePrices(db *gorm.DB) error {
	if !db.Migrator().HasTable("prices") {
		return nil
	}
	if !db.Migrator().HasColumn("prices", "price_type") || !db.Migrator().HasColumn("prices", "source") {
		return nil
	}

	// Keep the most recently written row of each (card, source, type) group
	result := db.Exec(`
		DELETE FROM prices
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM prices
			GROUP BY card_id, source, price_type
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Cleaned up duplicate prices entries")
	}
	return nil
}

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := removeOrphanedRows(db); err != nil {
		return err
	}
	return nil
}

// removeOrphanedRows deletes prices and sales whose card no longer exists.
// Databases created without foreign key enforcement can hold such rows.
func removeOrphanedRows(db *gorm.DB) error {
	for _, table := range []string{"prices", "sales"} {
		result := db.Exec(`DELETE FROM ` + table + ` WHERE card_id NOT IN (SELECT id FROM cards)`)
		if result.Error != nil {
			log.Warn().Err(result.Error).Str("table", table).Msg("Failed to remove orphaned rows")
			continue
		}
		if result.RowsAffected > 0 {
			log.Info().Int64("rows", result.RowsAffected).Str("table", table).Msg("Removed orphaned rows")
		}
	}
	return nil
}
