package handler

import (
	"net/http"

	"gruago/internal/model"
	"gruago/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VehicleHandler handles tow-truck management
type VehicleHandler struct {
	db *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{db: db}
}

// List returns all vehicles
func (h *VehicleHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var vehicles []model.Vehicle
	if result := h.db.Order("id ASC").Find(&vehicles); result.Error != nil {
		log.Error("Failed to list vehicles", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(vehicles),
		"data":    vehicles,
	})
}

// ListByDriver returns the vehicles owned by one driver
func (h *VehicleHandler) ListByDriver(c echo.Context) error {
	log := logger.FromContext(c)

	var vehicles []model.Vehicle
	result := h.db.Where("driver_id = ?", c.Param("driverId")).Order("id ASC").Find(&vehicles)
	if result.Error != nil {
		log.Error("Failed to list vehicles by driver", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(vehicles),
		"data":    vehicles,
	})
}

// Get returns a single vehicle by id
func (h *VehicleHandler) Get(c echo.Context) error {
	var vehicle model.Vehicle
	if result := h.db.First(&vehicle, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Vehicle not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    vehicle,
	})
}

// Create adds a vehicle, active by default
func (h *VehicleHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		DriverID    uint   `json:"driver_id"`
		PlateNumber string `json:"plate_number"`
		VehicleType string `json:"vehicle_type"`
		Brand       string `json:"brand"`
		Model       string `json:"model"`
		Year        int    `json:"year"`
		Color       string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.DriverID == 0 || req.PlateNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide all required fields",
		})
	}

	vehicle := model.Vehicle{
		DriverID:    req.DriverID,
		PlateNumber: req.PlateNumber,
		VehicleType: req.VehicleType,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		Color:       req.Color,
		IsActive:    true,
	}
	if result := h.db.Create(&vehicle); result.Error != nil {
		log.Error("Failed to create vehicle", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Vehicle created",
		zap.Uint("vehicle_id", vehicle.ID),
		zap.String("plate", vehicle.PlateNumber))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    vehicle,
	})
}

// Update applies a partial update to a vehicle
func (h *VehicleHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var vehicle model.Vehicle
	if result := h.db.First(&vehicle, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Vehicle not found",
		})
	}

	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}

	updates := buildUpdates(body,
		"driver_id", "plate_number", "vehicle_type", "brand", "model", "year", "color", "is_active")
	if len(updates) > 0 {
		if err := h.db.Model(&vehicle).Updates(updates).Error; err != nil {
			log.Error("Failed to update vehicle", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"error":   "Server Error",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    vehicle,
	})
}

// Delete removes a vehicle
func (h *VehicleHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	var vehicle model.Vehicle
	if result := h.db.First(&vehicle, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Vehicle not found",
		})
	}

	if err := h.db.Delete(&vehicle).Error; err != nil {
		log.Error("Failed to delete vehicle", zap.Error(err))
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
