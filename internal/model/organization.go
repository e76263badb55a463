package model

import "time"

// Organization is the tenant root. Every other entity except User email and
// username uniqueness hangs off an organization through OrganizationID.
// Organizations are deactivated rather than removed so that foreign keys
// stay intact.
type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedBy uint      `json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
