// Package handler holds the echo HTTP handlers. Handlers only parse input,
// consult the authorization policy and delegate to the repositories; all
// role/tenant branching lives in internal/auth.
package handler

import (
	"net/http"

	"cms-service/internal/auth"
	"cms-service/internal/middleware"
	"cms-service/pkg/apperror"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// principal extracts the authenticated caller or fails the request.
func principal(c echo.Context) (auth.Principal, error) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}

// fail maps a kinded error onto its HTTP status. Infrastructure errors are
// logged in full and reported generically.
func fail(c echo.Context, log *zap.Logger, err error) error {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperror.MessageOf(err)})
}
