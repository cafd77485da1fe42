package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gruago/internal/model"
	"gruago/pkg/jwtutil"
	"gruago/pkg/logger"
	"gruago/prometheus"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys populated by Auth for downstream handlers
const (
	UserIDKey   = "user_id"
	TenantIDKey = "tenant_id"
	EmailKey    = "email"
	RoleKey     = "user_role"
	FullNameKey = "full_name"
)

// Auth validates the bearer token and re-checks that the subject is still an
// active user. The re-check is what defeats stale tokens held by deactivated
// accounts before they expire.
func Auth(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "Access token required",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "Access token required",
				})
			}

			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					log.Error("Expired JWT token", zap.Error(err))
					prometheus.RecordAuthError("expired_token")
					return c.JSON(http.StatusForbidden, echo.Map{
						"success": false,
						"error":   "Token expired",
					})
				}
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"error":   "Invalid token",
				})
			}

			// Re-fetch the subject: the token may outlive the account
			var user model.User
			result := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user)
			if result.Error != nil {
				log.Error("Token subject not found or inactive",
					zap.Uint("user_id", claims.UserID),
					zap.Error(result.Error))
				prometheus.RecordAuthError("user_not_found")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"error":   "Invalid token",
					"message": "User not found or inactive",
				})
			}

			role := claims.Role
			if role == "" {
				role = "user"
			}

			c.Set(UserIDKey, user.ID)
			c.Set(TenantIDKey, user.TenantID)
			c.Set(EmailKey, user.Email)
			c.Set(FullNameKey, user.FullName)
			c.Set(RoleKey, role)

			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not in the allowed set
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			logger.FromContext(c).Error("Insufficient role",
				zap.String("role", role),
				zap.Strings("allowed", roles))
			prometheus.RecordAuthError("insufficient_role")
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"error":   "Insufficient permissions",
			})
		}
	}
}

// RequireTenant rejects requests whose :tenantId route parameter does not
// match the caller's own tenant
func RequireTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		param := c.Param("tenantId")
		if param == "" {
			return next(c)
		}

		requested, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Invalid tenant id",
			})
		}

		tenantID, _ := c.Get(TenantIDKey).(uint)
		if uint(requested) != tenantID {
			logger.FromContext(c).Error("Cross-tenant access rejected",
				zap.Uint("caller_tenant", tenantID),
				zap.Uint64("requested_tenant", requested))
			prometheus.RecordAuthError("tenant_mismatch")
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"error":   "Access denied",
				"message": "You do not have access to this company's data",
			})
		}

		return next(c)
	}
}
