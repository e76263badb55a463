package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// ContentTypeRepository manages content type definitions. Content types
// hard-delete, but only while no content references them.
type ContentTypeRepository struct {
	db *gorm.DB
}

func NewContentTypeRepository(db *gorm.DB) *ContentTypeRepository {
	return &ContentTypeRepository{db: db}
}

func (r *ContentTypeRepository) Create(ct *model.ContentType) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.Model(&model.ContentType{}).
		Where("(name = ? OR slug = ?) AND organization_id = ?", ct.Name, ct.Slug, ct.OrganizationID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("content type with this name or slug already exists")
	}

	err := r.db.Create(ct).Error
	return translateError(err, "Content type not found", "content type with this name or slug already exists")
}

func (r *ContentTypeRepository) GetByID(id, orgID uint) (*model.ContentType, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var ct model.ContentType
	err := r.db.First(&ct, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, translateError(err, "Content type not found", "")
	}
	return &ct, nil
}

func (r *ContentTypeRepository) GetBySlug(slug string, orgID uint) (*model.ContentType, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var ct model.ContentType
	err := r.db.First(&ct, "slug = ? AND organization_id = ?", slug, orgID).Error
	if err != nil {
		return nil, translateError(err, "Content type not found", "")
	}
	return &ct, nil
}

func (r *ContentTypeRepository) List(orgID uint, page query.Page) ([]model.ContentType, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var types []model.ContentType
	base := r.db.Where("organization_id = ?", orgID)
	total, err := query.FindPage(base, &model.ContentType{}, query.SortNameAscending, page, &types)
	if err != nil {
		return nil, 0, err
	}
	return types, total, nil
}

func (r *ContentTypeRepository) Update(ct *model.ContentType) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var count int64
	if err := r.db.Model(&model.ContentType{}).
		Where("(name = ? OR slug = ?) AND organization_id = ? AND id != ?", ct.Name, ct.Slug, ct.OrganizationID, ct.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("content type with this name or slug already exists")
	}

	err := r.db.Save(ct).Error
	return translateError(err, "Content type not found", "content type with this name or slug already exists")
}

// Delete hard-deletes the content type. Rejected while any content still
// references it, leaving the type and its content untouched.
func (r *ContentTypeRepository) Delete(id, orgID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	var ct model.ContentType
	if err := r.db.First(&ct, "id = ? AND organization_id = ?", id, orgID).Error; err != nil {
		return translateError(err, "Content type not found", "")
	}

	var refs int64
	if err := r.db.Model(&model.Content{}).
		Where("content_type_id = ? AND organization_id = ?", id, orgID).
		Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return apperror.Conflict("content type is in use and cannot be deleted")
	}

	return r.db.Delete(&ct).Error
}
