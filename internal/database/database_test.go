package database

import (
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "posts", "likes"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %q", table)
	}
	assert.True(t, db.Migrator().HasColumn(&models.Post{}, "status"))
	assert.True(t, db.Migrator().HasColumn(&models.Post{}, "rejection_reason"))
	assert.True(t, db.Migrator().HasColumn(&models.Post{}, "published_at"))
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{DBMaxOpenConns: 10, DBMaxIdleConns: 5}
	assert.NoError(t, configurePool(db, cfg))

	// Zero values fall back to defaults without erroring.
	assert.NoError(t, configurePool(db, &config.Config{}))
}
