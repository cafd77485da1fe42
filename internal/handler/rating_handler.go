package handler

import (
	"net/http"

	"gruago/internal/model"
	"gruago/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RatingHandler handles customer scores on completed tow requests
type RatingHandler struct {
	db *gorm.DB
}

func NewRatingHandler(db *gorm.DB) *RatingHandler {
	return &RatingHandler{db: db}
}

// Create records a score for a completed request
func (h *RatingHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		RequestID uint   `json:"request_id"`
		Score     int    `json:"score"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid request data",
		})
	}
	if req.RequestID == 0 || req.Score < 1 || req.Score > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "request_id and a score between 1 and 5 are required",
		})
	}

	var request model.TowRequest
	if result := h.db.First(&request, req.RequestID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"error":   "Tow request not found",
		})
	}
	if request.Status != model.StatusCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Only completed requests can be rated",
		})
	}

	rating := model.Rating{
		RequestID: req.RequestID,
		Score:     req.Score,
		Comment:   req.Comment,
	}
	if result := h.db.Create(&rating); result.Error != nil {
		log.Error("Failed to create rating", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	log.Info("Rating created",
		zap.Uint("request_id", rating.RequestID),
		zap.Int("score", rating.Score))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    rating,
	})
}

// ListByRequest returns the ratings left on one request
func (h *RatingHandler) ListByRequest(c echo.Context) error {
	log := logger.FromContext(c)

	var ratings []model.Rating
	result := h.db.Where("request_id = ?", c.Param("requestId")).Order("id ASC").Find(&ratings)
	if result.Error != nil {
		log.Error("Failed to list ratings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(ratings),
		"data":    ratings,
	})
}
