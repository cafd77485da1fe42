package handler

import (
	"net/http"

	"gruago/internal/model"
	"gruago/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler handles administrative user management. Self-service account
// operations live on AuthHandler.
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns all users
func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var users []model.User
	if result := h.db.Order("id ASC").Find(&users); result.Error != nil {
		log.Error("Failed to list users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(users),
		"data":    users,
	})
}

// Get returns a single user by id
func (h *UserHandler) Get(c echo.Context) error {
	var user model.User
	if result := h.db.First(&user, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "User not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    user,
	})
}

// Create adds a user administratively, active by default
func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TenantID uint   `json:"tenant_id"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.TenantID == 0 || req.FullName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide all required fields",
		})
	}

	var count int64
	h.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"success": false,
			"error":   "Email already exists",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
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
	if result := h.db.Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("User created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    user,
	})
}

// Update applies a partial update to a user. The password hash is not
// updatable here; password rotation goes through change-password.
func (h *UserHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var user model.User
	if result := h.db.First(&user, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "User not found",
		})
	}

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	updates := buildUpdates(body, "tenant_id", "full_name", "email", "phone", "is_active")
	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			log.Error("Failed to update user", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"error":   "Server Error",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    user,
	})
}

// Delete removes a user
func (h *UserHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	var user model.User
	if result := h.db.First(&user, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "User not found",
		})
	}

	if err := h.db.Delete(&user).Error; err != nil {
		log.Error("Failed to delete user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{},
	})
}
