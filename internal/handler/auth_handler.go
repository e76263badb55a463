package handler

import (
	"net/http"

	"cms-service/internal/repository"
	"cms-service/pkg/apperror"
	"cms-service/pkg/database"
	"cms-service/pkg/jwtutil"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies an email/password pair and issues a signed session token
// carrying identity, organization and role. Absent, inactive and
// wrong-password principals all fail with the same message.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	users := repository.NewUserRepository(database.GetDB())
	user, err := users.GetByEmail(req.Email)
	if err != nil {
		log.Warn("Login for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return fail(c, log, apperror.InvalidCredentials())
	}

	if !user.Active {
		log.Warn("Login for inactive user", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_inactive")
		return fail(c, log, apperror.InvalidCredentials())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return fail(c, log, apperror.InvalidCredentials())
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.OrganizationID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("organization_id", user.OrganizationID),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":              user.ID,
			"email":           user.Email,
			"username":        user.Username,
			"role":            user.Role,
			"organization_id": user.OrganizationID,
		},
	})
}

// Me returns the authenticated principal's own record.
func Me(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(database.GetDB())
	user, err := users.GetByIDAny(p.UserID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, user)
}
