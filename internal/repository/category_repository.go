package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// CategoryRepository manages content categories within one organization.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.Model(&model.Category{}).
		Where("(name = ? OR slug = ?) AND organization_id = ?", category.Name, category.Slug, category.OrganizationID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("category with this name or slug already exists")
	}

	category.Active = true
	err := r.db.Create(category).Error
	return translateError(err, "Category not found", "category with this name or slug already exists")
}

func (r *CategoryRepository) GetByID(id, orgID uint) (*model.Category, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var category model.Category
	err := r.db.First(&category, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, translateError(err, "Category not found", "")
	}
	return &category, nil
}

func (r *CategoryRepository) GetBySlug(slug string, orgID uint) (*model.Category, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var category model.Category
	err := r.db.First(&category, "slug = ? AND organization_id = ?", slug, orgID).Error
	if err != nil {
		return nil, translateError(err, "Category not found", "")
	}
	return &category, nil
}

func (r *CategoryRepository) List(orgID uint, page query.Page) ([]model.Category, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var categories []model.Category
	base := r.db.Where("organization_id = ?", orgID)
	total, err := query.FindPage(base, &model.Category{}, query.SortNameAscending, page, &categories)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *CategoryRepository) Update(category *model.Category) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var count int64
	if err := r.db.Model(&model.Category{}).
		Where("(name = ? OR slug = ?) AND organization_id = ? AND id != ?",
			category.Name, category.Slug, category.OrganizationID, category.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("category with this name or slug already exists")
	}

	err := r.db.Save(category).Error
	return translateError(err, "Category not found", "category with this name or slug already exists")
}

// SoftDelete deactivates the category. Existing content links stay in place
// and remain queryable.
func (r *CategoryRepository) SoftDelete(id, orgID uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.Model(&model.Category{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Category not found")
	}
	return nil
}
