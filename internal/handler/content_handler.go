package handler

import (
	"encoding/json"
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
)

// ContentRequest defines the structure for content creation/update requests.
// Data is stored as-is; it is not validated against the content type's
// field definitions.
type ContentRequest struct {
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Data           json.RawMessage `json:"data"`
	Status         string          `json:"status"`
	ContentTypeID  uint            `json:"content_type_id"`
	OrganizationID uint            `json:"organization_id"`
	CategoryIDs    []uint          `json:"category_ids"`
	TagIDs         []uint          `json:"tag_ids"`
}

func validStatus(status string) bool {
	switch status {
	case model.StatusDraft, model.StatusPublished, model.StatusArchived:
		return true
	}
	return false
}

// CreateContent creates a content record, defaulting to draft status.
func CreateContent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content", "create")

	p, err := principal(c)
	if err != nil {
		return err
	}

	var req ContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Title == "" || req.Slug == "" || req.ContentTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, slug and content_type_id are required"})
	}
	if req.Status != "" && !validStatus(req.Status) {
		return fail(c, log, apperror.Validation("invalid status"))
	}
	// PublishedAt is non-null exactly when status is published, and only the
	// publish operation maintains that pair.
	if req.Status == model.StatusPublished {
		return fail(c, log, apperror.Validation("content cannot be created as published; use the publish operation"))
	}

	orgID, err := auth.ResolveOrgScope(p, req.OrganizationID)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		prometheus.RecordAuthError("content_create_denied")
		return fail(c, log, err)
	}

	// The content type must exist inside the same organization.
	types := repository.NewContentTypeRepository(database.GetDB())
	if _, err := types.GetByID(req.ContentTypeID, orgID); err != nil {
		return fail(c, log, err)
	}

	content := model.Content{
		Title:          req.Title,
		Slug:           req.Slug,
		Data:           req.Data,
		Status:         req.Status,
		ContentTypeID:  req.ContentTypeID,
		OrganizationID: orgID,
	}

	contents := repository.NewContentRepository(database.GetDB())
	if err := contents.Create(&content, req.CategoryIDs, req.TagIDs); err != nil {
		return fail(c, log, err)
	}

	log.Info("Content created",
		zap.Uint("content_id", content.ID),
		zap.String("slug", content.Slug),
		zap.Uint("organization_id", content.OrganizationID))
	return c.JSON(http.StatusCreated, content)
}

// ListContent lists content with optional filters, newest first.
func ListContent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	filter := query.ParseContentFilter(c)
	if filter.Status != "" && !validStatus(filter.Status) {
		return fail(c, log, apperror.Validation("invalid status"))
	}
	page := query.ParsePage(c)

	contents := repository.NewContentRepository(database.GetDB())
	list, total, err := contents.List(orgID, filter, page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"content":    list,
		"pagination": query.NewListMeta(total, page),
	})
}

// GetContent fetches one content record with its categories and tags.
func GetContent(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	contents := repository.NewContentRepository(database.GetDB())
	content, err := contents.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, content)
}

// UpdateContent edits a content record and replaces its category/tag links.
// Status moves through here too, except the publish transition which has
// its own operation.
func UpdateContent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		prometheus.RecordAuthError("content_update_denied")
		return fail(c, log, err)
	}

	var req ContentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Status != "" && !validStatus(req.Status) {
		return fail(c, log, apperror.Validation("invalid status"))
	}

	contents := repository.NewContentRepository(database.GetDB())
	content, err := contents.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	// Updates may keep published status on an already-published row but may
	// not perform the publish transition; that goes through the publish
	// operation, which stamps published_at.
	if req.Status == model.StatusPublished && content.Status != model.StatusPublished {
		return fail(c, log, apperror.Validation("content cannot be published through an update; use the publish operation"))
	}

	if req.Title != "" {
		content.Title = req.Title
	}
	if req.Slug != "" {
		content.Slug = req.Slug
	}
	if req.Data != nil {
		content.Data = req.Data
	}
	if req.Status != "" {
		content.Status = req.Status
	}

	categoryIDs := req.CategoryIDs
	tagIDs := req.TagIDs
	if categoryIDs == nil {
		categoryIDs = collectIDs(content.Categories)
	}
	if tagIDs == nil {
		tagIDs = collectTagIDs(content.Tags)
	}

	if err := contents.Update(content, categoryIDs, tagIDs); err != nil {
		return fail(c, log, err)
	}

	updated, err := contents.GetByID(content.ID, orgID)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Content updated", zap.Uint("content_id", content.ID))
	return c.JSON(http.StatusOK, updated)
}

// PublishContent moves content to published and stamps the publish time.
// Publishing again refreshes the timestamp.
func PublishContent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content", "publish")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		prometheus.RecordAuthError("content_publish_denied")
		return fail(c, log, err)
	}

	contents := repository.NewContentRepository(database.GetDB())
	content, err := contents.Publish(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Content published",
		zap.Uint("content_id", content.ID),
		zap.Timep("published_at", content.PublishedAt))
	return c.JSON(http.StatusOK, content)
}

// DeleteContent hard-deletes a content record and its links.
func DeleteContent(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("content", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid content ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		prometheus.RecordAuthError("content_delete_denied")
		return fail(c, log, err)
	}

	contents := repository.NewContentRepository(database.GetDB())
	if err := contents.Delete(uint(id), orgID); err != nil {
		return fail(c, log, err)
	}

	log.Info("Content deleted", zap.Uint64("content_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Content deleted successfully"})
}

func collectIDs(categories []model.Category) []uint {
	ids := make([]uint, 0, len(categories))
	for _, category := range categories {
		ids = append(ids, category.ID)
	}
	return ids
}

func collectTagIDs(tags []model.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
