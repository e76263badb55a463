package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// MediaRepository manages media metadata rows. The bytes themselves live in
// the blob store; deleting the row is the caller's second step after
// deleting the blob.
type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(media *model.Media) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return r.db.Create(media).Error
}

func (r *MediaRepository) GetByID(id, orgID uint) (*model.Media, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var media model.Media
	err := r.db.First(&media, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, translateError(err, "Media not found", "")
	}
	return &media, nil
}

func (r *MediaRepository) List(orgID uint, page query.Page) ([]model.Media, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var media []model.Media
	base := r.db.Where("organization_id = ?", orgID)
	total, err := query.FindPage(base, &model.Media{}, query.SortNewestFirst, page, &media)
	if err != nil {
		return nil, 0, err
	}
	return media, total, nil
}

// Update saves caption/alt edits. Filename, path and size never change
// after upload.
func (r *MediaRepository) Update(media *model.Media) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	err := r.db.Save(media).Error
	return translateError(err, "Media not found", "")
}

func (r *MediaRepository) Delete(id, orgID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := r.db.Where("id = ? AND organization_id = ?", id, orgID).Delete(&model.Media{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Media not found")
	}
	return nil
}
