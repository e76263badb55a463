package model

import "time"

// FieldDefinition describes one field of a content type. The list is
// advisory: content payloads are not validated against it at storage time.
type FieldDefinition struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// ContentType defines the shape of content records within an organization.
// Hard-deleted, but deletion is blocked while any content references it.
type ContentType struct {
	ID             uint              `json:"id" gorm:"primaryKey"`
	Name           string            `json:"name" gorm:"type:varchar(255);not null"`
	Slug           string            `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex:idx_content_types_org_slug"`
	Fields         []FieldDefinition `json:"fields" gorm:"serializer:json;type:jsonb"`
	OrganizationID uint              `json:"organization_id" gorm:"index;not null;uniqueIndex:idx_content_types_org_slug"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
