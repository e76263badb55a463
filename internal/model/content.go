package model

import (
	"encoding/json"
	"time"
)

// Content statuses. The only guarded transition is publish, which stamps
// PublishedAt; every other status change is a plain update.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// Content is a record of a content type. Data is a freeform JSON document
// whose shape is implied by the content type's field list but not enforced;
// it is stored as raw bytes so key order survives round trips.
type Content struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Title          string          `json:"title" gorm:"type:varchar(255);not null"`
	Slug           string          `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_contents_org_slug"`
	Data           json.RawMessage `json:"data" gorm:"serializer:json;type:jsonb"`
	Status         string          `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PublishedAt    *time.Time      `json:"published_at"`
	OrganizationID uint            `json:"organization_id" gorm:"index;not null;uniqueIndex:idx_contents_org_slug"`
	ContentTypeID  uint            `json:"content_type_id" gorm:"index;not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Populated from join rows on reads; never written through gorm
	// association auto-save.
	Categories []Category `json:"categories,omitempty" gorm:"-"`
	Tags       []Tag      `json:"tags,omitempty" gorm:"-"`
}

// IsPublished returns true if the content is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == StatusPublished
}

// ContentCategory links content to a category.
type ContentCategory struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ContentID  uint `json:"content_id" gorm:"index;not null;uniqueIndex:idx_content_categories_pair"`
	CategoryID uint `json:"category_id" gorm:"index;not null;uniqueIndex:idx_content_categories_pair"`
}

// ContentTag links content to a tag.
type ContentTag struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ContentID uint `json:"content_id" gorm:"index;not null;uniqueIndex:idx_content_tags_pair"`
	TagID     uint `json:"tag_id" gorm:"index;not null;uniqueIndex:idx_content_tags_pair"`
}

// ContentMedia links content to a media asset for a named field, ordered.
type ContentMedia struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ContentID uint   `json:"content_id" gorm:"index;not null"`
	MediaID   uint   `json:"media_id" gorm:"index;not null"`
	FieldName string `json:"field_name" gorm:"type:varchar(255);not null"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
}
