package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// TagRepository manages content tags within one organization.
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(tag *model.Tag) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.Model(&model.Tag{}).
		Where("(name = ? OR slug = ?) AND organization_id = ?", tag.Name, tag.Slug, tag.OrganizationID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("tag with this name or slug already exists")
	}

	tag.Active = true
	err := r.db.Create(tag).Error
	return translateError(err, "Tag not found", "tag with this name or slug already exists")
}

func (r *TagRepository) GetByID(id, orgID uint) (*model.Tag, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var tag model.Tag
	err := r.db.First(&tag, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, translateError(err, "Tag not found", "")
	}
	return &tag, nil
}

func (r *TagRepository) GetBySlug(slug string, orgID uint) (*model.Tag, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var tag model.Tag
	err := r.db.First(&tag, "slug = ? AND organization_id = ?", slug, orgID).Error
	if err != nil {
		return nil, translateError(err, "Tag not found", "")
	}
	return &tag, nil
}

func (r *TagRepository) List(orgID uint, page query.Page) ([]model.Tag, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var tags []model.Tag
	base := r.db.Where("organization_id = ?", orgID)
	total, err := query.FindPage(base, &model.Tag{}, query.SortNameAscending, page, &tags)
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *TagRepository) Update(tag *model.Tag) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var count int64
	if err := r.db.Model(&model.Tag{}).
		Where("(name = ? OR slug = ?) AND organization_id = ? AND id != ?",
			tag.Name, tag.Slug, tag.OrganizationID, tag.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("tag with this name or slug already exists")
	}

	err := r.db.Save(tag).Error
	return translateError(err, "Tag not found", "tag with this name or slug already exists")
}

func (r *TagRepository) SoftDelete(id, orgID uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.Model(&model.Tag{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Tag not found")
	}
	return nil
}
