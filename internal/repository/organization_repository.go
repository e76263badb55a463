package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// OrganizationRepository manages tenants themselves, so unlike the other
// repositories its scope is global. Organizations are deactivated rather
// than removed.
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create inserts a new organization after checking that no existing one
// shares its name or slug.
func (r *OrganizationRepository) Create(org *model.Organization) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.Model(&model.Organization{}).
		Where("name = ? OR slug = ?", org.Name, org.Slug).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("organization with this name or slug already exists")
	}

	org.Active = true
	err := r.db.Create(org).Error
	return translateError(err, "organization not found", "organization with this name or slug already exists")
}

func (r *OrganizationRepository) GetByID(id uint) (*model.Organization, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var org model.Organization
	err := r.db.First(&org, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "Organization not found", "")
	}
	return &org, nil
}

// GetActiveBySlug resolves a tenant from its public slug. Deactivated
// organizations are invisible on the public surface.
func (r *OrganizationRepository) GetActiveBySlug(slug string) (*model.Organization, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var org model.Organization
	err := r.db.First(&org, "slug = ? AND active = ?", slug, true).Error
	if err != nil {
		return nil, translateError(err, "Organization not found", "")
	}
	return &org, nil
}

func (r *OrganizationRepository) List(page query.Page) ([]model.Organization, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var orgs []model.Organization
	total, err := query.FindPage(r.db, &model.Organization{}, query.SortNameAscending, page, &orgs)
	if err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

// Update saves changed fields, re-running the uniqueness check when the name
// or slug moved.
func (r *OrganizationRepository) Update(org *model.Organization) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var count int64
	if err := r.db.Model(&model.Organization{}).
		Where("(name = ? OR slug = ?) AND id != ?", org.Name, org.Slug, org.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("organization with this name or slug already exists")
	}

	err := r.db.Save(org).Error
	return translateError(err, "Organization not found", "organization with this name or slug already exists")
}

// SoftDelete deactivates the organization. Rows owned by it stay in place.
func (r *OrganizationRepository) SoftDelete(id uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.Model(&model.Organization{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Organization not found")
	}
	return nil
}
