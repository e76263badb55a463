package model

import "time"

// Tag labels content within an organization. Soft-deleted via Active.
type Tag struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug           string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_org_slug"`
	Color          string    `json:"color" gorm:"type:varchar(20)"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null;uniqueIndex:idx_tags_org_slug"`
	Active         bool      `json:"active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
