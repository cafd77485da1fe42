package model_test

import (
	"testing"

	"gruago/internal/model"
	"gruago/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// Activation flags carry no column default: what the caller writes is what
// the row stores, for true and for false alike.
func TestIsActivePersistsAsWritten(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Tenant{Name: "Cerrada", IsActive: false}).Error)
	require.NoError(t, db.Create(&model.User{TenantID: 1, Email: "off@example.com", IsActive: false}).Error)
	require.NoError(t, db.Create(&model.User{TenantID: 1, Email: "on@example.com", IsActive: true}).Error)
	require.NoError(t, db.Create(&model.Driver{TenantID: 1, FullName: "Baja", IsActive: false}).Error)
	require.NoError(t, db.Create(&model.Vehicle{DriverID: 1, PlateNumber: "XYZ-1", IsActive: false}).Error)
	require.NoError(t, db.Create(&model.Service{TenantID: 1, Name: "Retirado", IsActive: false}).Error)

	var tenant model.Tenant
	require.NoError(t, db.First(&tenant, 1).Error)
	assert.False(t, tenant.IsActive)

	var inactive, active model.User
	require.NoError(t, db.Where("email = ?", "off@example.com").First(&inactive).Error)
	require.NoError(t, db.Where("email = ?", "on@example.com").First(&active).Error)
	assert.False(t, inactive.IsActive)
	assert.True(t, active.IsActive)

	var driver model.Driver
	require.NoError(t, db.First(&driver, 1).Error)
	assert.False(t, driver.IsActive)

	var vehicle model.Vehicle
	require.NoError(t, db.First(&vehicle, 1).Error)
	assert.False(t, vehicle.IsActive)

	var service model.Service
	require.NoError(t, db.First(&service, 1).Error)
	assert.False(t, service.IsActive)
}
