package handler

import (
	"net/http"
	"time"

	"gruago/internal/dashboard"
	"gruago/pkg/logger"
	"gruago/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardHandler exposes the operator metrics snapshot
type DashboardHandler struct {
	reporter *dashboard.Reporter
}

func NewDashboardHandler(reporter *dashboard.Reporter) *DashboardHandler {
	return &DashboardHandler{reporter: reporter}
}

// Metrics recomputes and returns the dashboard snapshot
func (h *DashboardHandler) Metrics(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	metrics, err := h.reporter.Metrics(c.Request().Context())
	if err != nil {
		log.Error("Failed to aggregate dashboard metrics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Server Error",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    metrics,
	})
}
