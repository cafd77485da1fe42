package handler

import (
	"net/http"

	"gruago/internal/model"
	"gruago/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceHandler handles price catalog management
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// List returns all services
func (h *ServiceHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var services []model.Service
	if result := h.db.Order("id ASC").Find(&services); result.Error != nil {
		log.Error("Failed to list services", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(services),
		"data":    services,
	})
}

// ListByTenant returns one tenant's service catalog
func (h *ServiceHandler) ListByTenant(c echo.Context) error {
	log := logger.FromContext(c)

	var services []model.Service
	result := h.db.Where("tenant_id = ?", c.Param("tenantId")).Order("id ASC").Find(&services)
	if result.Error != nil {
		log.Error("Failed to list services by tenant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(services),
		"data":    services,
	})
}

// Get returns a single service by id
func (h *ServiceHandler) Get(c echo.Context) error {
	var service model.Service
	if result := h.db.First(&service, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Service not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    service,
	})
}

// Create adds a catalog entry, active by default
func (h *ServiceHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TenantID    uint    `json:"tenant_id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		BasePrice   float64 `json:"base_price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.TenantID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide all required fields",
		})
	}

	service := model.Service{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		IsActive:    true,
	}
	if result := h.db.Create(&service); result.Error != nil {
		log.Error("Failed to create service", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Service created", zap.Uint("service_id", service.ID), zap.String("name", service.Name))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    service,
	})
}

// Update applies a partial update to a service
func (h *ServiceHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var service model.Service
	if result := h.db.First(&service, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Service not found",
		})
	}

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	updates := buildUpdates(body, "tenant_id", "name", "description", "base_price", "is_active")
	if len(updates) > 0 {
		if err := h.db.Model(&service).Updates(updates).Error; err != nil {
			log.Error("Failed to update service", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"error":   "Server Error",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    service,
	})
}

// Delete removes a service
func (h *ServiceHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	var service model.Service
	if result := h.db.First(&service, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Service not found",
		})
	}

	if err := h.db.Delete(&service).Error; err != nil {
		log.Error("Failed to delete service", zap.Error(err))
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
