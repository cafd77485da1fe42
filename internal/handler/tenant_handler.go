package handler

import (
	"errors"
	"net/http"

	"gruago/internal/model"
	"gruago/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenantHandler handles tenant management. Tenants are the one collection
// without a tenant_id column; listing them is an operator-level view.
type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

// List returns all tenants
func (h *TenantHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var tenants []model.Tenant
	if result := h.db.Order("id ASC").Find(&tenants); result.Error != nil {
		log.Error("Failed to list tenants", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(tenants),
		"data":    tenants,
	})
}

// Get returns a single tenant by id
func (h *TenantHandler) Get(c echo.Context) error {
	var tenant model.Tenant
	if result := h.db.First(&tenant, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Tenant not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    tenant,
	})
}

// Create registers a new tenant, active by default
func (h *TenantHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name         string `json:"name"`
		ContactEmail string `json:"contact_email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide tenant name",
		})
	}

	tenant := model.Tenant{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		IsActive:     true,
	}
	if result := h.db.Create(&tenant); result.Error != nil {
		log.Error("Failed to create tenant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Tenant created", zap.Uint("tenant_id", tenant.ID), zap.String("name", tenant.Name))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    tenant,
	})
}

// Update applies a partial update to a tenant
func (h *TenantHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var tenant model.Tenant
	if result := h.db.First(&tenant, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Tenant not found",
		})
	}

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	updates := buildUpdates(body, "name", "contact_email", "is_active")
	if len(updates) > 0 {
		if err := h.db.Model(&tenant).Updates(updates).Error; err != nil {
			log.Error("Failed to update tenant", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"error":   "Server Error",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    tenant,
	})
}

// Delete removes a tenant
func (h *TenantHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	var tenant model.Tenant
	if result := h.db.First(&tenant, c.Param("id")); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"error":   "Tenant not found",
			})
		}
		log.Error("Failed to load tenant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	if err := h.db.Delete(&tenant).Error; err != nil {
		log.Error("Failed to delete tenant", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Tenant deleted", zap.Uint("tenant_id", tenant.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{},
	})
}
