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

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	OrganizationID uint   `json:"organization_id"`
}

// CreateCategory adds a new category to an organization.
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "create")

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req CategoryRequest
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

	category := model.Category{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		OrganizationID: orgID,
	}

	categories := repository.NewCategoryRepository(database.GetDB())
	if err := categories.Create(&category); err != nil {
		return fail(c, log, err)
	}

	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("slug", category.Slug),
		zap.Uint("organization_id", category.OrganizationID))
	return c.JSON(http.StatusCreated, category)
}

// ListCategories lists an organization's categories, name ascending.
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	page := query.ParsePage(c)
	categories := repository.NewCategoryRepository(database.GetDB())
	list, total, err := categories.List(orgID, page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"categories": list,
		"pagination": query.NewListMeta(total, page),
	})
}

// GetCategory fetches one category within the caller's scope.
func GetCategory(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	categories := repository.NewCategoryRepository(database.GetDB())
	category, err := categories.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, category)
}

// UpdateCategory edits a category's name, slug or description.
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	categories := repository.NewCategoryRepository(database.GetDB())
	category, err := categories.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := categories.Update(category); err != nil {
		return fail(c, log, err)
	}

	log.Info("Category updated", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory deactivates a category.
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	categories := repository.NewCategoryRepository(database.GetDB())
	if err := categories.SoftDelete(uint(id), orgID); err != nil {
		return fail(c, log, err)
	}

	log.Info("Category deactivated", zap.Uint64("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
