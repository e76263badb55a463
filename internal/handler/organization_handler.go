package handler

import (
	"net/http"
	"strconv"

	"cms-service/internal/auth"
	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/internal/repository"
	"cms-service/pkg/database"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrganizationRequest defines the structure for organization creation/update requests
type OrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateOrganization provisions a new tenant. Owner-only: no other role may
// act outside its own organization, and a new organization is by definition
// outside every existing one.
func CreateOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("organization", "create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	if p.Role != model.RoleOwner {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only owners can create organizations"})
	}

	var req OrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}

	org := model.Organization{
		Name:      req.Name,
		Slug:      req.Slug,
		CreatedBy: p.UserID,
		UpdatedBy: p.UserID,
	}

	orgs := repository.NewOrganizationRepository(database.GetDB())
	if err := orgs.Create(&org); err != nil {
		return fail(c, log, err)
	}

	log.Info("Organization created",
		zap.Uint("organization_id", org.ID),
		zap.String("slug", org.Slug))
	return c.JSON(http.StatusCreated, org)
}

// ListOrganizations lists all tenants. Owner-only, for the same reason as
// creation.
func ListOrganizations(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("organization", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}
	if p.Role != model.RoleOwner {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only owners can list organizations"})
	}

	page := query.ParsePage(c)
	orgs := repository.NewOrganizationRepository(database.GetDB())
	list, total, err := orgs.List(page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"organizations": list,
		"pagination":    query.NewListMeta(total, page),
	})
}

// GetOrganization fetches one tenant, visible to its own members and owners.
func GetOrganization(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	if err := auth.Authorize(p, auth.ActionRead, uint(id)); err != nil {
		return fail(c, log, err)
	}

	orgs := repository.NewOrganizationRepository(database.GetDB())
	org, err := orgs.GetByID(uint(id))
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, org)
}

// UpdateOrganization renames a tenant or changes its slug.
func UpdateOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("organization", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	if err := auth.Authorize(p, auth.ActionWrite, uint(id)); err != nil {
		return fail(c, log, err)
	}

	var req OrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	orgs := repository.NewOrganizationRepository(database.GetDB())
	org, err := orgs.GetByID(uint(id))
	if err != nil {
		return fail(c, log, err)
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Slug != "" {
		org.Slug = req.Slug
	}
	org.UpdatedBy = p.UserID

	if err := orgs.Update(org); err != nil {
		return fail(c, log, err)
	}

	log.Info("Organization updated", zap.Uint("organization_id", org.ID))
	return c.JSON(http.StatusOK, org)
}

// DeleteOrganization deactivates a tenant. Rows owned by it stay intact.
func DeleteOrganization(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("organization", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	if err := auth.Authorize(p, auth.ActionWrite, uint(id)); err != nil {
		return fail(c, log, err)
	}

	orgs := repository.NewOrganizationRepository(database.GetDB())
	if err := orgs.SoftDelete(uint(id)); err != nil {
		return fail(c, log, err)
	}

	log.Info("Organization deactivated", zap.Uint64("organization_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Organization deleted successfully"})
}
