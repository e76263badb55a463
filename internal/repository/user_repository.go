package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// UserRepository manages principals. Email and username uniqueness is
// global; visibility of rows is still tenant-scoped.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user after checking that the email and username are
// free across all organizations.
func (r *UserRepository) Create(user *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.Model(&model.User{}).
		Where("email = ? OR username = ?", user.Email, user.Username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("user with this email or username already exists")
	}

	user.Active = true
	err := r.db.Create(user).Error
	return translateError(err, "User not found", "user with this email or username already exists")
}

// GetByEmail looks up a principal for login. Global scope: login happens
// before any tenant context exists.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var user model.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, translateError(err, "User not found", "")
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id, orgID uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var user model.User
	err := r.db.First(&user, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, translateError(err, "User not found", "")
	}
	return &user, nil
}

// GetByIDAny fetches a user without tenant scoping. Reserved for owner
// callers, who may address any organization.
func (r *UserRepository) GetByIDAny(id uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var user model.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "User not found", "")
	}
	return &user, nil
}

func (r *UserRepository) List(orgID uint, page query.Page) ([]model.User, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var users []model.User
	base := r.db.Where("organization_id = ?", orgID)
	total, err := query.FindPage(base, &model.User{}, query.SortNewestFirst, page, &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update saves changed fields, re-running the global uniqueness check
// excluding the user's own row.
func (r *UserRepository) Update(user *model.User) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var count int64
	if err := r.db.Model(&model.User{}).
		Where("(email = ? OR username = ?) AND id != ?", user.Email, user.Username, user.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("user with this email or username already exists")
	}

	err := r.db.Save(user).Error
	return translateError(err, "User not found", "user with this email or username already exists")
}

// SoftDelete deactivates the user. The self-deletion guard lives in the
// authorization policy, not here.
func (r *UserRepository) SoftDelete(id, orgID uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.Model(&model.User{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}
