package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectImage occupies one gallery slot of a project. (project_id, position) is unique.
type ProjectImage struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID `json:"-" db:"project_id" gorm:"type:uuid;not null;index:idx_project_image_project_id;uniqueIndex:idx_project_image_slot"`
	ImageURL  string    `json:"url" db:"image_url" gorm:"column:image_url;type:text;not null"`
	Position  int       `json:"position" db:"position" gorm:"not null;uniqueIndex:idx_project_image_slot"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}
