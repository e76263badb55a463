package handler

import (
	"net/http"
	"strconv"

	"cms-service/internal/auth"
	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/internal/repository"
	"cms-service/pkg/apperror"
	"cms-service/pkg/database"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRequest defines the structure for user creation/update requests
type UserRequest struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	OrganizationID uint   `json:"organization_id"`
}

func validRole(role string) bool {
	switch role {
	case model.RoleOwner, model.RoleEditor, model.RoleViewer:
		return true
	}
	return false
}

// CreateUser creates a principal. Editors may only create users inside
// their own organization; owners anywhere.
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "create")

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, username and password are required"})
	}
	if req.Role == "" {
		req.Role = model.RoleViewer
	}
	if !validRole(req.Role) {
		return fail(c, log, apperror.Validation("invalid role"))
	}

	targetOrg := req.OrganizationID
	if targetOrg == 0 {
		targetOrg = p.OrganizationID
	}

	if err := auth.AuthorizeUserCreate(p, targetOrg); err != nil {
		prometheus.RecordAuthError("user_create_denied")
		return fail(c, log, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}

	user := model.User{
		Email:          req.Email,
		Username:       req.Username,
		Password:       string(hashed),
		Role:           req.Role,
		OrganizationID: targetOrg,
	}

	users := repository.NewUserRepository(database.GetDB())
	if err := users.Create(&user); err != nil {
		return fail(c, log, err)
	}

	log.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Uint("organization_id", user.OrganizationID),
		zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, user)
}

// ListUsers lists the users of one organization.
func ListUsers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	page := query.ParsePage(c)
	users := repository.NewUserRepository(database.GetDB())
	list, total, err := users.List(orgID, page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":      list,
		"pagination": query.NewListMeta(total, page),
	})
}

// GetUser fetches one user within the caller's organization scope.
func GetUser(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	users := repository.NewUserRepository(database.GetDB())

	var user *model.User
	if p.Role == model.RoleOwner {
		user, err = users.GetByIDAny(uint(id))
	} else {
		user, err = users.GetByID(uint(id), p.OrganizationID)
	}
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateUser changes profile fields or role. Password changes re-hash.
func UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	users := repository.NewUserRepository(database.GetDB())

	var user *model.User
	if p.Role == model.RoleOwner {
		user, err = users.GetByIDAny(uint(id))
	} else {
		user, err = users.GetByID(uint(id), p.OrganizationID)
	}
	if err != nil {
		return fail(c, log, err)
	}

	if err := auth.Authorize(p, auth.ActionWrite, user.OrganizationID); err != nil {
		prometheus.RecordAuthError("user_update_denied")
		return fail(c, log, err)
	}

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Role != "" {
		if !validRole(req.Role) {
			return fail(c, log, apperror.Validation("invalid role"))
		}
		user.Role = req.Role
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
		}
		user.Password = string(hashed)
	}

	if err := users.Update(user); err != nil {
		return fail(c, log, err)
	}

	log.Info("User updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// DeleteUser deactivates a user. Self-deletion is denied for every role.
func DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	users := repository.NewUserRepository(database.GetDB())

	var user *model.User
	if p.Role == model.RoleOwner {
		user, err = users.GetByIDAny(uint(id))
	} else {
		user, err = users.GetByID(uint(id), p.OrganizationID)
	}
	if err != nil {
		return fail(c, log, err)
	}

	if err := auth.AuthorizeUserDelete(p, user.ID, user.OrganizationID); err != nil {
		prometheus.RecordAuthError("user_delete_denied")
		return fail(c, log, err)
	}

	if err := users.SoftDelete(user.ID, user.OrganizationID); err != nil {
		return fail(c, log, err)
	}

	log.Info("User deactivated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// requestedOrgScope resolves which organization a list/create request
// targets: owners may pass organization_id, everyone else stays home.
func requestedOrgScope(c echo.Context, p auth.Principal) (uint, error) {
	var requested uint
	if v, err := strconv.ParseUint(c.QueryParam("organization_id"), 10, 32); err == nil {
		requested = uint(v)
	}
	return auth.ResolveOrgScope(p, requested)
}
