package towing

import (
	"errors"
	"testing"
	"time"

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

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedRequest(t *testing.T, db *gorm.DB, status string) *model.TowRequest {
	t.Helper()

	request := &model.TowRequest{
		TenantID:           1,
		UserID:             1,
		ServiceID:          1,
		OriginAddress:      "Av. Reforma 100",
		DestinationAddress: "Taller Central",
		TotalPrice:         350,
		Status:             status,
		RequestedAt:        time.Now(),
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusPending)

	_, err := lifecycle.SetStatus(request.ID, "towed_away", nil)
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestSetStatusRejectsAssignWithoutDriver(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusPending)

	_, err := lifecycle.SetStatus(request.ID, model.StatusAssigned, nil)
	assert.True(t, errors.Is(err, ErrMissingDriver))

	// The failed call must not have touched the row
	var stored model.TowRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Nil(t, stored.DriverID)
}

func TestSetStatusUnknownRequest(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)

	_, err := lifecycle.SetStatus(9999, model.StatusCancelled, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAssignSetsDriver(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusPending)

	driverID := uint(12)
	updated, err := lifecycle.SetStatus(request.ID, model.StatusAssigned, &driverID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusAssigned, updated.Status)
	require.NotNil(t, updated.DriverID)
	assert.Equal(t, driverID, *updated.DriverID)
	assert.Nil(t, updated.StartedAt)
	assert.Nil(t, updated.CompletedAt)
}

func TestInProgressStampsStartedAt(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusAssigned)

	updated, err := lifecycle.SetStatus(request.ID, model.StatusInProgress, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInProgress, updated.Status)
	require.NotNil(t, updated.StartedAt)
	assert.WithinDuration(t, time.Now(), *updated.StartedAt, 5*time.Second)
	assert.False(t, updated.StartedAt.Before(updated.RequestedAt),
		"a job cannot start before it was requested")
	assert.Nil(t, updated.CompletedAt)
}

func TestCompletedStampsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusInProgress)

	updated, err := lifecycle.SetStatus(request.ID, model.StatusCompleted, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, time.Now(), *updated.CompletedAt, 5*time.Second)
}

func TestCancelFromAnyStatus(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)

	for _, status := range []string{model.StatusPending, model.StatusAssigned, model.StatusInProgress} {
		request := seedRequest(t, db, status)
		updated, err := lifecycle.SetStatus(request.ID, model.StatusCancelled, nil)
		require.NoError(t, err, "cancel from %s", status)
		assert.Equal(t, model.StatusCancelled, updated.Status)
	}
}

func TestPermissiveBackwardTransition(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusCompleted)

	// The stored behavior allows any recognized status from any prior one
	updated, err := lifecycle.SetStatus(request.ID, model.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, updated.Status)
}

func TestStrictOrderRejectsBackwardTransition(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	lifecycle.StrictOrder = true

	request := seedRequest(t, db, model.StatusCompleted)
	_, err := lifecycle.SetStatus(request.ID, model.StatusPending, nil)
	assert.True(t, errors.Is(err, ErrTransitionOrder))

	// Cancellation stays reachable under the strict policy
	updated, err := lifecycle.SetStatus(request.ID, model.StatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, updated.Status)

	// A cancelled request may not resume
	_, err = lifecycle.SetStatus(request.ID, model.StatusInProgress, nil)
	assert.True(t, errors.Is(err, ErrTransitionOrder))
}

func TestDeletePendingRequest(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusPending)

	_, err := lifecycle.Delete(request.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.TowRequest{}).Where("id = ?", request.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRejectsNonPendingRequest(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)
	request := seedRequest(t, db, model.StatusAssigned)

	_, err := lifecycle.Delete(request.ID)
	assert.True(t, errors.Is(err, ErrNotPending))

	var count int64
	require.NoError(t, db.Model(&model.TowRequest{}).Where("id = ?", request.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteUnknownRequest(t *testing.T) {
	db := newTestDB(t)
	lifecycle := NewLifecycle(db)

	_, err := lifecycle.Delete(12345)
	assert.True(t, errors.Is(err, ErrNotFound))
}
