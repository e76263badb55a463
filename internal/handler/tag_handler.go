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

// TagRequest defines the structure for tag creation/update requests
type TagRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Color          string `json:"color"`
	OrganizationID uint   `json:"organization_id"`
}

// CreateTag adds a new tag to an organization.
func CreateTag(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tag", "create")

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}

	orgID, err := auth.ResolveOrgScope(p, req.OrganizationID)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	tag := model.Tag{
		Name:           req.Name,
		Slug:           req.Slug,
		Color:          req.Color,
		OrganizationID: orgID,
	}

	tags := repository.NewTagRepository(database.GetDB())
	if err := tags.Create(&tag); err != nil {
		return fail(c, log, err)
	}

	log.Info("Tag created",
		zap.Uint("tag_id", tag.ID),
		zap.String("slug", tag.Slug),
		zap.Uint("organization_id", tag.OrganizationID))
	return c.JSON(http.StatusCreated, tag)
}

// ListTags lists an organization's tags, name ascending.
func ListTags(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tag", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	page := query.ParsePage(c)
	tags := repository.NewTagRepository(database.GetDB())
	list, total, err := tags.List(orgID, page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tags":       list,
		"pagination": query.NewListMeta(total, page),
	})
}

// GetTag fetches one tag within the caller's scope.
func GetTag(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tag ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	tags := repository.NewTagRepository(database.GetDB())
	tag, err := tags.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, tag)
}

// UpdateTag edits a tag's name, slug or color.
func UpdateTag(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tag", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tag ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	tags := repository.NewTagRepository(database.GetDB())
	tag, err := tags.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	if req.Name != "" {
		tag.Name = req.Name
	}
	if req.Slug != "" {
		tag.Slug = req.Slug
	}
	if req.Color != "" {
		tag.Color = req.Color
	}

	if err := tags.Update(tag); err != nil {
		return fail(c, log, err)
	}

	log.Info("Tag updated", zap.Uint("tag_id", tag.ID))
	return c.JSON(http.StatusOK, tag)
}

// DeleteTag deactivates a tag.
func DeleteTag(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tag", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tag ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	tags := repository.NewTagRepository(database.GetDB())
	if err := tags.SoftDelete(uint(id), orgID); err != nil {
		return fail(c, log, err)
	}

	log.Info("Tag deactivated", zap.Uint64("tag_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Tag deleted successfully"})
}
