package handler

import (
	"net/http"
	"testing"

	"gruago/internal/model"
	"gruago/pkg/config"
	"gruago/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *AuthHandler, *echo.Echo) {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "handler-test-key", ExpirationHours: 1})
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.Tenant{Name: "Gruas Express", IsActive: true}).Error)
	return db, NewAuthHandler(db), echo.New()
}

func TestRegister(t *testing.T) {
	db, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Ana Torres","email":"ana@example.com","phone":"5551234","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	// The response never leaks the hash
	assert.NotContains(t, rec.Body.String(), "password")

	// The stored credential is a bcrypt hash, not the plaintext
	var user model.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&user).Error)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.True(t, user.IsActive)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Ana","email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Other Ana","email":"ana@example.com","password":"different"}`)
	require.NoError(t, handler.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	_, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"email":"ana@example.com"}`)
	require.NoError(t, handler.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterInactiveTenant(t *testing.T) {
	db, handler, e := setupAuthTest(t)
	require.NoError(t, db.Create(&model.Tenant{Name: "Cerrada", IsActive: false}).Error)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":2,"full_name":"Ana","email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	_, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Ana","email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	_, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Ana","email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newJSONContext(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"wrong"}`)
	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"secret123"}`)
	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	db, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Ana","email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "ana@example.com").
		Update("is_active", false).Error)

	c, rec = newJSONContext(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInactiveTenant(t *testing.T) {
	db, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/register",
		`{"tenant_id":1,"full_name":"Ana","email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, db.Model(&model.Tenant{}).Where("id = ?", 1).
		Update("is_active", false).Error)

	c, rec = newJSONContext(e, http.MethodPost, "/api/auth/login",
		`{"email":"ana@example.com","password":"secret123"}`)
	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingCredentials(t *testing.T) {
	_, handler, e := setupAuthTest(t)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com"}`)
	require.NoError(t, handler.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
