package middleware

import (
	"net/http"
	"strings"

	"cms-service/internal/auth"
	"cms-service/pkg/jwtutil"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the session token and stashes the decoded
// principal for the authorization policy.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		if claims.OrganizationID == 0 {
			log.Warn("JWT token does not carry an organization")
			prometheus.TenantContextMissingCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "organization context required"})
		}

		c.Set("principal", auth.Principal{
			UserID:         claims.UserID,
			OrganizationID: claims.OrganizationID,
			Email:          claims.Email,
			Role:           claims.Role,
		})

		log.Debug("Request authenticated",
			zap.Uint("user_id", claims.UserID),
			zap.Uint("organization_id", claims.OrganizationID),
			zap.String("role", claims.Role))

		return next(c)
	}
}

// PrincipalFromContext retrieves the authenticated principal set by
// AuthMiddleware.
func PrincipalFromContext(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get("principal").(auth.Principal)
	return p, ok
}
