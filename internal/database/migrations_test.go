package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openRawDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "legacy.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestCleanupDuplicatePrices(t *testing.T) {
	db := openRawDB(t)

	require.NoError(t, db.Exec(`CREATE TABLE prices (
		id INTEGER PRIMARY KEY,
		card_id INTEGER NOT NULL,
		source TEXT NOT NULL,
		price_type TEXT NOT NULL,
		price_value REAL NOT NULL,
		last_updated TEXT
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO prices (card_id, source, price_type, price_value) VALUES
		(1, 'PriceCharting', 'loose_price', 1.0),
		(1, 'PriceCharting', 'loose_price', 2.0),
		(1, 'TCGplayer', 'loose_price', 3.0)`).Error)

	require.NoError(t, cleanupDuplicatePrices(db))

	var values []float64
	require.NoError(t, db.Raw(`SELECT price_value FROM prices ORDER BY id`).Scan(&values).Error)
	assert.Equal(t, []float64{2.0, 3.0}, values, "newest row of each key is kept")
}

func TestCleanupDuplicatePricesWithoutTable(t *testing.T) {
	db := openRawDB(t)
	assert.NoError(t, cleanupDuplicatePrices(db))
}

func TestRemoveOrphanedRows(t *testing.T) {
	store := newTestStore(t)
	db := store.DB()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Rows written while foreign keys were not enforced
	require.NoError(t, db.Exec(`PRAGMA foreign_keys = OFF`).Error)
	require.NoError(t, db.Exec(`INSERT INTO sales (card_id, source, price) VALUES (99, 'PriceCharting', 1.0)`).Error)
	require.NoError(t, db.Exec(`PRAGMA foreign_keys = ON`).Error)

	require.NoError(t, removeOrphanedRows(db))

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM sales`).Scan(&count).Error)
	assert.Zero(t, count)
}
