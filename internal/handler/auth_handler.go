package handler

import (
	"errors"
	"net/http"
	"time"

	"gruago/internal/middleware"
	"gruago/internal/model"
	"gruago/pkg/jwtutil"
	"gruago/pkg/logger"
	"gruago/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt cost for newly created password hashes. Verification accepts any
// cost, so older cost-10 hashes keep working until the password changes.
const hashCost = 12

// AuthHandler handles registration, login and account endpoints
type AuthHandler struct {
	db *gorm.DB
}

// NewAuthHandler creates an auth handler over the shared pool
func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Register creates a user under an active tenant and issues a token
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		TenantID uint   `json:"tenant_id"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	if req.TenantID == 0 || req.FullName == "" || req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing required fields",
			"message": "tenant_id, full_name, email and password are required",
		})
	}

	// Duplicate email check
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if result := h.db.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		log.Error("Email already registered", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{
			"success": false,
			"error":   "Email already exists",
		})
	}

	// The tenant must exist and be active
	var tenant model.Tenant
	result := h.db.Where("id = ? AND is_active = ?", req.TenantID, true).First(&tenant)
	if result.Error != nil {
		log.Error("Registration against unknown or inactive tenant",
			zap.Uint("tenant_id", req.TenantID))
		prometheus.RecordAuthError("invalid_tenant")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid tenant",
			"message": "The company does not exist or is inactive",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Registration failed",
		})
	}

	user := model.User{
		TenantID:     req.TenantID,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashed),
		IsActive:     true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Registration failed",
		})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.TenantID, user.Email, "user")
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Registration failed",
		})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", user.TenantID))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"data":    user,
		"token":   token,
	})
}

// Login verifies credentials against an active user in an active tenant
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("missing_credentials")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing credentials",
			"message": "Email and password are required",
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := h.db.Where("email = ?", req.Email).First(&user); result.Error != nil {
		log.Error("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "Invalid credentials",
		})
	}

	if !user.IsActive {
		log.Error("Login on inactive account", zap.String("email", req.Email))
		prometheus.RecordAuthError("inactive_user")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "Account inactive",
		})
	}

	var tenant model.Tenant
	if result := h.db.First(&tenant, user.TenantID); result.Error != nil || !tenant.IsActive {
		log.Error("Login against inactive tenant",
			zap.String("email", req.Email),
			zap.Uint("tenant_id", user.TenantID))
		prometheus.RecordAuthError("inactive_tenant")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "Company inactive",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "Invalid credentials",
		})
	}

	token, err := jwtutil.GenerateToken(user.ID, user.TenantID, user.Email, "user")
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Login failed",
		})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", user.TenantID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user": echo.Map{
				"id":          user.ID,
				"tenant_id":   user.TenantID,
				"tenant_name": tenant.Name,
				"full_name":   user.FullName,
				"email":       user.Email,
				"role":        "user",
			},
		},
		"token": token,
	})
}

// Profile returns the authenticated user's record with the tenant name
func (h *AuthHandler) Profile(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := c.Get(middleware.UserIDKey).(uint)

	var user model.User
	if result := h.db.First(&user, userID); result.Error != nil {
		log.Error("Profile subject not found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "User not found",
		})
	}

	var tenant model.Tenant
	h.db.First(&tenant, user.TenantID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"id":          user.ID,
			"tenant_id":   user.TenantID,
			"tenant_name": tenant.Name,
			"full_name":   user.FullName,
			"email":       user.Email,
			"phone":       user.Phone,
			"role":        c.Get(middleware.RoleKey),
			"is_active":   user.IsActive,
			"created_at":  user.CreatedAt,
		},
	})
}

// ChangePassword rotates the caller's password after verifying the current one
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := c.Get(middleware.UserIDKey).(uint)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Missing passwords",
			"message": "Current and new password are required",
		})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Weak password",
			"message": "The new password must be at least 6 characters",
		})
	}

	var user model.User
	if result := h.db.First(&user, userID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"error":   "User not found",
			})
		}
		log.Error("Failed to load user for password change", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		prometheus.RecordAuthError("invalid_current_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "Invalid current password",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), hashCost)
	if err != nil {
		log.Error("Failed to hash new password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Password change failed",
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Password change failed",
		})
	}

	log.Info("Password changed", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password updated successfully",
	})
}

// Logout acknowledges the logout. Tokens are stateless; the client discards
// its copy and the expiry does the rest.
func (h *AuthHandler) Logout(c echo.Context) error {
	prometheus.DecreaseActiveTokens()
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Verify confirms the token is valid and echoes the resolved identity
func (h *AuthHandler) Verify(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Token is valid",
		"data": echo.Map{
			"id":        c.Get(middleware.UserIDKey),
			"tenant_id": c.Get(middleware.TenantIDKey),
			"full_name": c.Get(middleware.FullNameKey),
			"email":     c.Get(middleware.EmailKey),
			"role":      c.Get(middleware.RoleKey),
		},
	})
}
