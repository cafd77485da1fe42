package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gruago/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{
		TenantID:     1,
		FullName:     "Ana Torres",
		Email:        "ana@example.com",
		Phone:        "5551234",
		PasswordHash: "$2a$12$fakehashfakehashfakehashfakehashfakehashfakehashfakeha",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func updateUser(t *testing.T, handler *UserHandler, e *echo.Echo, id, body string) *httptest.ResponseRecorder {
	t.Helper()

	c, rec := newJSONContext(e, http.MethodPut, "/api/users/"+id, body)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, handler.Update(c))
	return rec
}

func TestUpdateUserPartial(t *testing.T) {
	db := newTestDB(t)
	handler := NewUserHandler(db)
	e := echo.New()
	user := seedTestUser(t, db)

	rec := updateUser(t, handler, e, "1", `{"full_name":"Ana Maria Torres"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "Ana Maria Torres", stored.FullName)

	// Fields absent from the body keep their stored values
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "5551234", stored.Phone)
	assert.True(t, stored.IsActive)
}

func TestUpdateUserExplicitFalseAndEmpty(t *testing.T) {
	db := newTestDB(t)
	handler := NewUserHandler(db)
	e := echo.New()
	user := seedTestUser(t, db)

	// Explicit false and empty string are applied, not skipped
	rec := updateUser(t, handler, e, "1", `{"is_active":false,"phone":""}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Empty(t, stored.Phone)
	assert.Equal(t, "Ana Torres", stored.FullName)
}

func TestUpdateUserIgnoresPasswordHash(t *testing.T) {
	db := newTestDB(t)
	handler := NewUserHandler(db)
	e := echo.New()
	user := seedTestUser(t, db)

	rec := updateUser(t, handler, e, "1", `{"password_hash":"injected","full_name":"New Name"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "New Name", stored.FullName)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestUpdateUserNotFound(t *testing.T) {
	db := newTestDB(t)
	handler := NewUserHandler(db)
	e := echo.New()

	rec := updateUser(t, handler, e, "999", `{"full_name":"Nobody"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	handler := NewUserHandler(db)
	e := echo.New()
	user := seedTestUser(t, db)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, handler.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}
