package model

import "time"

// Category groups content within an organization. Soft-deleted via Active.
type Category struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug           string    `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_org_slug"`
	Description    string    `json:"description" gorm:"type:text"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null;uniqueIndex:idx_categories_org_slug"`
	Active         bool      `json:"active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
