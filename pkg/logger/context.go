package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is the header and context key carrying the request id.
// The request-id middleware writes it; everything else reads it from here.
const RequestIDKey = "X-Request-ID"

// FromContext returns the request-scoped logger set by Middleware. When a
// handler runs outside the middleware chain it falls back to the global
// logger tagged with whatever request id is available.
func FromContext(c echo.Context) *zap.Logger {
	if logger, ok := c.Get("logger").(*zap.Logger); ok {
		return logger
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok {
		requestID = c.Request().Header.Get(RequestIDKey)
		if requestID == "" {
			requestID = "unknown"
		}
	}

	return GetLogger().With(zap.String("request_id", requestID))
}
