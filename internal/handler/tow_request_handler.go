package handler

import (
	"errors"
	"net/http"
	"time"

	"gruago/internal/model"
	"gruago/internal/towing"
	"gruago/pkg/logger"
	"gruago/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TowRequestHandler handles tow-request submission, listing and the two
// distinct mutation entry points: the guarded status transition and the
// unguarded bulk update.
type TowRequestHandler struct {
	db        *gorm.DB
	lifecycle *towing.Lifecycle
}

func NewTowRequestHandler(db *gorm.DB, lifecycle *towing.Lifecycle) *TowRequestHandler {
	return &TowRequestHandler{db: db, lifecycle: lifecycle}
}

// List returns all tow requests
func (h *TowRequestHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	var requests []model.TowRequest
	if result := h.db.Order("id ASC").Find(&requests); result.Error != nil {
		log.Error("Failed to list tow requests", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(requests),
		"data":    requests,
	})
}

// ListByTenant returns one tenant's requests, newest first
func (h *TowRequestHandler) ListByTenant(c echo.Context) error {
	return h.listFiltered(c, "tenant_id = ?", c.Param("tenantId"))
}

// ListByUser returns one user's requests, newest first
func (h *TowRequestHandler) ListByUser(c echo.Context) error {
	return h.listFiltered(c, "user_id = ?", c.Param("userId"))
}

// ListByDriver returns one driver's requests, newest first
func (h *TowRequestHandler) ListByDriver(c echo.Context) error {
	return h.listFiltered(c, "driver_id = ?", c.Param("driverId"))
}

func (h *TowRequestHandler) listFiltered(c echo.Context, condition string, value string) error {
	log := logger.FromContext(c)

	var requests []model.TowRequest
	result := h.db.Where(condition, value).Order("requested_at DESC").Find(&requests)
	if result.Error != nil {
		log.Error("Failed to list tow requests", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(requests),
		"data":    requests,
	})
}

// Get returns a single tow request by id
func (h *TowRequestHandler) Get(c echo.Context) error {
	var request model.TowRequest
	if result := h.db.First(&request, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Tow request not found",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    request,
	})
}

// Create submits a new request. Status always starts as pending and the
// driver is unset until assignment.
func (h *TowRequestHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TenantID           uint     `json:"tenant_id"`
		UserID             uint     `json:"user_id"`
		ServiceID          uint     `json:"service_id"`
		OriginAddress      string   `json:"origin_address"`
		OriginLat          *float64 `json:"origin_lat"`
		OriginLng          *float64 `json:"origin_lng"`
		DestinationAddress string   `json:"destination_address"`
		DestinationLat     *float64 `json:"destination_lat"`
		DestinationLng     *float64 `json:"destination_lng"`
		DistanceKm         *float64 `json:"distance_km"`
		TotalPrice         float64  `json:"total_price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.TenantID == 0 || req.UserID == 0 || req.ServiceID == 0 ||
		req.OriginAddress == "" || req.DestinationAddress == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide all required fields",
		})
	}

	request := model.TowRequest{
		TenantID:           req.TenantID,
		UserID:             req.UserID,
		ServiceID:          req.ServiceID,
		OriginAddress:      req.OriginAddress,
		OriginLat:          req.OriginLat,
		OriginLng:          req.OriginLng,
		DestinationAddress: req.DestinationAddress,
		DestinationLat:     req.DestinationLat,
		DestinationLng:     req.DestinationLng,
		DistanceKm:         req.DistanceKm,
		TotalPrice:         req.TotalPrice,
		Status:             model.StatusPending,
		RequestedAt:        time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&request); result.Error != nil {
		log.Error("Failed to create tow request", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Tow request created",
		zap.Uint("request_id", request.ID),
		zap.Uint("tenant_id", request.TenantID),
		zap.Uint("user_id", request.UserID))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    request,
	})
}

// Update is the unguarded bulk overwrite: any mutable column, including
// status and the lifecycle timestamps, may be set directly. The guarded
// transition path is UpdateStatus.
func (h *TowRequestHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	var request model.TowRequest
	if result := h.db.First(&request, c.Param("id")); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Tow request not found",
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
		"tenant_id", "user_id", "driver_id", "service_id",
		"origin_address", "origin_lat", "origin_lng",
		"destination_address", "destination_lat", "destination_lng",
		"distance_km", "total_price", "status", "started_at", "completed_at")
	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := h.db.Model(&request).Updates(updates).Error; err != nil {
			log.Error("Failed to update tow request", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"success": false,
				"error":   "Server Error",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    request,
	})
}

// UpdateStatus applies a guarded lifecycle transition
func (h *TowRequestHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Status   string `json:"status"`
		DriverID *uint  `json:"driver_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Please provide status",
		})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request id",
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	request, err := h.lifecycle.SetStatus(id, req.Status, req.DriverID)
	if err != nil {
		switch {
		case errors.Is(err, towing.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"error":   "Tow request not found",
			})
		case errors.Is(err, towing.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Invalid status value",
			})
		case errors.Is(err, towing.ErrMissingDriver):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Driver ID is required when assigning a request",
			})
		case errors.Is(err, towing.ErrTransitionOrder):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Status cannot move backwards",
			})
		}
		log.Error("Failed to update request status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	prometheus.RecordStatusTransition(req.Status)
	log.Info("Tow request status updated",
		zap.Uint("request_id", request.ID),
		zap.String("status", req.Status))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    request,
	})
}

// Delete removes a request that is still pending
func (h *TowRequestHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request id",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if _, err := h.lifecycle.Delete(id); err != nil {
		switch {
		case errors.Is(err, towing.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"error":   "Tow request not found",
			})
		case errors.Is(err, towing.ErrNotPending):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Only pending requests can be deleted",
			})
		}
		log.Error("Failed to delete tow request", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Tow request deleted", zap.Uint("request_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{},
	})
}
