package handler

import (
	"net/http"

	"gruago/internal/model"
	"gruago/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DriverHandler handles driver management
type DriverHandler struct {
	db *gorm.DB
}

func NewDriverHandler(db *gorm.DB) *DriverHandler {
	return &DriverHandler{db: db}
}

// List returns all drivers
func (h *DriverHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var drivers []model.Driver
	if result := h.db.Order("id ASC").Find(&drivers); result.Error != nil {
		log.Error("Failed to list drivers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(drivers),
		"data":    drivers,
	})
}

// ListByTenant returns the drivers of one tenant
func (h *DriverHandler) ListByTenant(c echo.Context) error {
	log := logger.FromContext(c)

	var drivers []model.Driver
	result := h.db.Where("tenant_id = ?", c.Param("tenantId")).Order("id ASC").Find(&drivers)
	if result.Error != nil {
		log.Error("Failed to list drivers by tenant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(drivers),
		"data":    drivers,
	})
}

// Get returns a single driver by id
func (h *DriverHandler) Get(c echo.Context) error {
	var driver model.Driver
	if result := h.db.First(&driver, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Driver not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    driver,
	})
}

// Create adds a driver, active by default
func (h *DriverHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TenantID      uint   `json:"tenant_id"`
		FullName      string `json:"full_name"`
		Phone         string `json:"phone"`
		LicenseNumber string `json:"license_number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.TenantID == 0 || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide all required fields",
		})
	}

	driver := model.Driver{
		TenantID:      req.TenantID,
		FullName:      req.FullName,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		IsActive:      true,
	}
	if result := h.db.Create(&driver); result.Error != nil {
		log.Error("Failed to create driver", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Driver created", zap.Uint("driver_id", driver.ID), zap.String("name", driver.FullName))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    driver,
	})
}

// Update applies a partial update to a driver
func (h *DriverHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var driver model.Driver
	if result := h.db.First(&driver, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Driver not found",
		})
	}

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	updates := buildUpdates(body, "tenant_id", "full_name", "phone", "license_number", "is_active")
	if len(updates) > 0 {
		if err := h.db.Model(&driver).Updates(updates).Error; err != nil {
			log.Error("Failed to update driver", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"error":   "Server Error",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    driver,
	})
}

// Delete removes a driver
func (h *DriverHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	var driver model.Driver
	if result := h.db.First(&driver, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Driver not found",
		})
	}

	if err := h.db.Delete(&driver).Error; err != nil {
		log.Error("Failed to delete driver", zap.Error(err))
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
