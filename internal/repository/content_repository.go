package repository

import (
	"time"

	"cms-service/internal/model"
	"cms-service/internal/query"
	"cms-service/pkg/apperror"
	"cms-service/prometheus"

	"gorm.io/gorm"
)

// ContentRepository manages content records and their category/tag links.
// Link replacement during updates is delete-then-insert without a
// transaction; a crash mid-sequence can leave links behind the payload,
// which is an accepted risk.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Create inserts content plus its category and tag links after the slug
// pre-check within the organization.
func (r *ContentRepository) Create(content *model.Content, categoryIDs, tagIDs []uint) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := r.db.Model(&model.Content{}).
		Where("slug = ? AND organization_id = ?", content.Slug, content.OrganizationID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("content with this slug already exists")
	}

	if content.Status == "" {
		content.Status = model.StatusDraft
	}

	if err := r.db.Create(content).Error; err != nil {
		return translateError(err, "Content not found", "content with this slug already exists")
	}

	return r.insertLinks(content.ID, categoryIDs, tagIDs)
}

func (r *ContentRepository) GetByID(id, orgID uint) (*model.Content, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var content model.Content
	err := r.db.First(&content, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, translateError(err, "Content not found", "")
	}
	if err := r.loadRelations(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) GetBySlug(slug string, orgID uint) (*model.Content, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var content model.Content
	err := r.db.First(&content, "slug = ? AND organization_id = ?", slug, orgID).Error
	if err != nil {
		return nil, translateError(err, "Content not found", "")
	}
	if err := r.loadRelations(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetPublishedBySlug is the single-record fetch of the public surface: only
// published content with a publish timestamp is visible there.
func (r *ContentRepository) GetPublishedBySlug(slug string, orgID uint) (*model.Content, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var content model.Content
	err := r.db.First(&content,
		"slug = ? AND organization_id = ? AND status = ? AND published_at IS NOT NULL",
		slug, orgID, model.StatusPublished).Error
	if err != nil {
		return nil, translateError(err, "Content not found", "")
	}
	if err := r.loadRelations(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

// List fetches one page of content for the organization, newest first.
func (r *ContentRepository) List(orgID uint, filter query.ContentFilter, page query.Page) ([]model.Content, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	base := filter.Apply(r.db.Where("organization_id = ?", orgID))

	var contents []model.Content
	total, err := query.FindPage(base, &model.Content{}, query.SortNewestFirst, page, &contents)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// ListPublished narrows the predicate to published rows with a publish
// timestamp, regardless of the caller's status filter, and sorts by publish
// time. This is the fetch plan of the public surface.
func (r *ContentRepository) ListPublished(orgID uint, filter query.ContentFilter, page query.Page) ([]model.Content, int64, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	filter.Status = ""
	base := filter.Apply(r.db.
		Where("organization_id = ?", orgID).
		Where("status = ? AND published_at IS NOT NULL", model.StatusPublished))

	var contents []model.Content
	total, err := query.FindPage(base, &model.Content{}, query.SortRecentlyPublished, page, &contents)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// Update saves the content row and replaces its category/tag links. The slug
// uniqueness check excludes the row itself.
func (r *ContentRepository) Update(content *model.Content, categoryIDs, tagIDs []uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	var count int64
	if err := r.db.Model(&model.Content{}).
		Where("slug = ? AND organization_id = ? AND id != ?", content.Slug, content.OrganizationID, content.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("content with this slug already exists")
	}

	if err := r.db.Save(content).Error; err != nil {
		return translateError(err, "Content not found", "content with this slug already exists")
	}

	if err := r.db.Where("content_id = ?", content.ID).Delete(&model.ContentCategory{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("content_id = ?", content.ID).Delete(&model.ContentTag{}).Error; err != nil {
		return err
	}
	return r.insertLinks(content.ID, categoryIDs, tagIDs)
}

// Publish moves content to published and stamps the publish time in one
// update. Re-publishing refreshes the timestamp; there is no idempotence
// guard.
func (r *ContentRepository) Publish(id, orgID uint) (*model.Content, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	now := time.Now()
	result := r.db.Model(&model.Content{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Updates(map[string]interface{}{
			"status":       model.StatusPublished,
			"published_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("Content not found")
	}
	return r.GetByID(id, orgID)
}

// Delete hard-deletes content: category, tag and media links first, then
// the row.
func (r *ContentRepository) Delete(id, orgID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	var content model.Content
	if err := r.db.First(&content, "id = ? AND organization_id = ?", id, orgID).Error; err != nil {
		return translateError(err, "Content not found", "")
	}

	if err := r.db.Where("content_id = ?", id).Delete(&model.ContentCategory{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("content_id = ?", id).Delete(&model.ContentTag{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("content_id = ?", id).Delete(&model.ContentMedia{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&content).Error
}

func (r *ContentRepository) insertLinks(contentID uint, categoryIDs, tagIDs []uint) error {
	for _, categoryID := range categoryIDs {
		link := model.ContentCategory{ContentID: contentID, CategoryID: categoryID}
		if err := r.db.Create(&link).Error; err != nil {
			return translateError(err, "", "content is already linked to this category")
		}
	}
	for _, tagID := range tagIDs {
		link := model.ContentTag{ContentID: contentID, TagID: tagID}
		if err := r.db.Create(&link).Error; err != nil {
			return translateError(err, "", "content is already linked to this tag")
		}
	}
	return nil
}

func (r *ContentRepository) loadRelations(content *model.Content) error {
	categorySub := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&model.ContentCategory{}).
		Select("category_id").
		Where("content_id = ?", content.ID)
	if err := r.db.Where("id IN (?)", categorySub).Order("name ASC").Find(&content.Categories).Error; err != nil {
		return err
	}

	tagSub := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&model.ContentTag{}).
		Select("tag_id").
		Where("content_id = ?", content.ID)
	return r.db.Where("id IN (?)", tagSub).Order("name ASC").Find(&content.Tags).Error
}
