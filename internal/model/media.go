package model

import "time"

// Media records metadata for an uploaded file. The bytes live in the blob
// store under Path; URL is where the file can be fetched from.
type Media struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Filename       string    `json:"filename" gorm:"type:varchar(255);not null"`
	OriginalName   string    `json:"original_name" gorm:"type:varchar(255);not null"`
	MimeType       string    `json:"mime_type" gorm:"type:varchar(100)"`
	Size           int64     `json:"size"`
	Path           string    `json:"path" gorm:"type:varchar(512);not null"`
	URL            string    `json:"url" gorm:"type:varchar(512)"`
	Alt            string    `json:"alt" gorm:"type:varchar(255)"`
	Caption        string    `json:"caption" gorm:"type:text"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
