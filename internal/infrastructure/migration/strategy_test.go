package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/fundtrail/internal/infrastructure/persistence/models"
	"github.com/orris-inc/fundtrail/internal/shared/config"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	gdb := openMemoryDB(t)
	strategy := NewGooseStrategy("sqlite3", logger.NewNopLogger())

	require.NoError(t, strategy.Migrate(gdb))

	version, err := strategy.GetVersion(gdb)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.True(t, gdb.Migrator().HasTable(&models.DonationModel{}))
	assert.True(t, gdb.Migrator().HasTable(&models.ProjectModel{}))
	assert.True(t, gdb.Migrator().HasIndex(&models.DonationModel{}, "uk_donations_settlement_reference"))

	// running again is a no-op
	require.NoError(t, strategy.Migrate(gdb))

	require.NoError(t, strategy.MigrateDown(gdb, 1))
	assert.False(t, gdb.Migrator().HasTable(&models.DonationModel{}))
}

func TestGooseSchemaMatchesModels(t *testing.T) {
	gdb := openMemoryDB(t)
	require.NoError(t, NewGooseStrategy("sqlite3", logger.NewNopLogger()).Migrate(gdb))

	row := &models.DonationModel{
		ID:                   "don_1",
		DonorIdentity:        "donor",
		OrganizationIdentity: "org",
		Amount:               10,
		SettlementReference:  "TX1",
		Allocations:          []byte("[]"),
		Version:              1,
	}
	require.NoError(t, gdb.Create(row).Error)

	var got models.DonationModel
	require.NoError(t, gdb.First(&got, "id = ?", "don_1").Error)
	assert.Equal(t, uint64(10), got.Amount)
}

func TestNewManager_PicksStrategy(t *testing.T) {
	log := logger.NewNopLogger()

	dev := NewManager(&config.DatabaseConfig{Driver: "sqlite"}, "debug", log)
	assert.Equal(t, "gorm_auto_migrate", dev.GetStrategy().GetName())

	prod := NewManager(&config.DatabaseConfig{Driver: "mysql"}, "release", log)
	assert.Equal(t, "goose", prod.GetStrategy().GetName())

	gdb := openMemoryDB(t)
	require.NoError(t, dev.Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable("donations"))
}
