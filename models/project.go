package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is one production in the portfolio. Images hold the gallery slots.
type Project struct {
	ID            uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title         string         `json:"title" db:"title" gorm:"type:text;not null"`
	Description   string         `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	CoverImageURL string         `json:"coverImage" db:"cover_image_url" gorm:"column:cover_image_url;type:text;not null;default:''"`
	SortOrder     int            `json:"-" db:"sort_order" gorm:"not null;default:0;index:idx_project_sort_order"`
	Images        []ProjectImage `json:"images" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `json:"-" db:"created_at"`
	UpdatedAt     time.Time      `json:"-" db:"updated_at"`
}
