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

// ContentTypeRequest defines the structure for content type creation/update requests
type ContentTypeRequest struct {
	Name           string                  `json:"name"`
	Slug           string                  `json:"slug"`
	Fields         []model.FieldDefinition `json:"fields"`
	OrganizationID uint                    `json:"organization_id"`
}

// CreateContentType defines a new content type for an organization.
func CreateContentType(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content_type", "create")

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req ContentTypeRequest
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

	ct := model.ContentType{
		Name:           req.Name,
		Slug:           req.Slug,
		Fields:         req.Fields,
		OrganizationID: orgID,
	}

	types := repository.NewContentTypeRepository(database.GetDB())
	if err := types.Create(&ct); err != nil {
		return fail(c, log, err)
	}

	log.Info("Content type created",
		zap.Uint("content_type_id", ct.ID),
		zap.String("slug", ct.Slug),
		zap.Uint("organization_id", ct.OrganizationID))
	return c.JSON(http.StatusCreated, ct)
}

// ListContentTypes lists an organization's content types, name ascending.
func ListContentTypes(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content_type", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	page := query.ParsePage(c)
	types := repository.NewContentTypeRepository(database.GetDB())
	list, total, err := types.List(orgID, page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"content_types": list,
		"pagination":    query.NewListMeta(total, page),
	})
}

// GetContentType fetches one content type within the caller's scope.
func GetContentType(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content type ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	types := repository.NewContentTypeRepository(database.GetDB())
	ct, err := types.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, ct)
}

// UpdateContentType edits a content type's name, slug or field list.
func UpdateContentType(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content_type", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content type ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	var req ContentTypeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	types := repository.NewContentTypeRepository(database.GetDB())
	ct, err := types.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	if req.Name != "" {
		ct.Name = req.Name
	}
	if req.Slug != "" {
		ct.Slug = req.Slug
	}
	if req.Fields != nil {
		ct.Fields = req.Fields
	}

	if err := types.Update(ct); err != nil {
		return fail(c, log, err)
	}

	log.Info("Content type updated", zap.Uint("content_type_id", ct.ID))
	return c.JSON(http.StatusOK, ct)
}

// DeleteContentType removes a content type unless content references it.
func DeleteContentType(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content_type", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content type ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	types := repository.NewContentTypeRepository(database.GetDB())
	if err := types.Delete(uint(id), orgID); err != nil {
		return fail(c, log, err)
	}

	log.Info("Content type deleted", zap.Uint64("content_type_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Content type deleted successfully"})
}
