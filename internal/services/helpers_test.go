package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/ajaypar09/Projects/internal/database"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := database.Open(database.Options{
		Path:     filepath.Join(t.TempDir(), "cards.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return database.NewStore(db)
}

func strPtr(s string) *string {
	return &s
}
