package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"cms-service/internal/auth"
	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/internal/repository"
	"cms-service/internal/storage"
	"cms-service/pkg/database"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var mediaStore storage.Backend

// SetMediaStorage wires the blob backend at startup.
func SetMediaStorage(backend storage.Backend) {
	mediaStore = backend
}

// UploadMedia accepts a multipart file, stores the bytes in the blob
// backend under a per-organization key and records the metadata row.
func UploadMedia(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("media", "upload")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		prometheus.RecordAuthError("media_upload_denied")
		return fail(c, log, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	filename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	objectKey := fmt.Sprintf("%d/%s", orgID, filename)

	if err := mediaStore.Upload(c.Request().Context(), objectKey, src); err != nil {
		log.Error("Failed to store upload", zap.Error(err), zap.String("object_key", objectKey))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store upload"})
	}

	media := model.Media{
		Filename:       filename,
		OriginalName:   fileHeader.Filename,
		MimeType:       fileHeader.Header.Get("Content-Type"),
		Size:           fileHeader.Size,
		Path:           objectKey,
		URL:            mediaStore.URL(objectKey),
		Alt:            c.FormValue("alt"),
		Caption:        c.FormValue("caption"),
		OrganizationID: orgID,
	}

	medias := repository.NewMediaRepository(database.GetDB())
	if err := medias.Create(&media); err != nil {
		return fail(c, log, err)
	}

	prometheus.MediaUploadBytes.Add(float64(fileHeader.Size))
	log.Info("Media uploaded",
		zap.Uint("media_id", media.ID),
		zap.String("object_key", objectKey),
		zap.Int64("size", media.Size))
	return c.JSON(http.StatusCreated, media)
}

// ListMedia lists an organization's media, newest first.
func ListMedia(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("media", "list")

	p, err := principal(c)
	if err != nil {
		return err
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	page := query.ParsePage(c)
	medias := repository.NewMediaRepository(database.GetDB())
	list, total, err := medias.List(orgID, page)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"media":      list,
		"pagination": query.NewListMeta(total, page),
	})
}

// GetMedia fetches one media record within the caller's scope.
func GetMedia(c echo.Context) error {
	log := logger.FromContext(c)

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid media ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}

	medias := repository.NewMediaRepository(database.GetDB())
	media, err := medias.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, media)
}

// UpdateMedia edits the alt text or caption. The stored file never changes.
func UpdateMedia(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("media", "update")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid media ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	var req struct {
		Alt     string `json:"alt"`
		Caption string `json:"caption"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	medias := repository.NewMediaRepository(database.GetDB())
	media, err := medias.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	media.Alt = req.Alt
	media.Caption = req.Caption

	if err := medias.Update(media); err != nil {
		return fail(c, log, err)
	}

	log.Info("Media updated", zap.Uint("media_id", media.ID))
	return c.JSON(http.StatusOK, media)
}

// DeleteMedia removes the blob first, then the metadata row.
func DeleteMedia(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("media", "delete")

	p, err := principal(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid media ID"})
	}

	orgID, err := requestedOrgScope(c, p)
	if err != nil {
		return fail(c, log, err)
	}
	if err := auth.Authorize(p, auth.ActionWrite, orgID); err != nil {
		return fail(c, log, err)
	}

	medias := repository.NewMediaRepository(database.GetDB())
	media, err := medias.GetByID(uint(id), orgID)
	if err != nil {
		return fail(c, log, err)
	}

	if err := mediaStore.Delete(c.Request().Context(), media.Path); err != nil {
		log.Error("Failed to delete blob", zap.Error(err), zap.String("object_key", media.Path))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete media"})
	}

	if err := medias.Delete(media.ID, orgID); err != nil {
		return fail(c, log, err)
	}

	log.Info("Media deleted", zap.Uint("media_id", media.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Media deleted successfully"})
}
