package model

import "time"

// Roles a user can hold. Owner is cross-tenant; editor and viewer are
// confined to their own organization.
const (
	RoleOwner  = "OWNER"
	RoleEditor = "EDITOR"
	RoleViewer = "VIEWER"
)

// User represents an authenticated principal. Email and username are
// globally unique, not per tenant.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Username       string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null"`
	Role           string    `json:"role" gorm:"type:varchar(20);not null;default:'VIEWER'"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null"`
	Active         bool      `json:"active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
