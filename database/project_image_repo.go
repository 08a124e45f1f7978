package database

import (
	"context"

	"github.com/amelikova/stage-portfolio/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectImageRepo struct {
	db *gorm.DB
}

func NewProjectImageRepo(db *gorm.DB) *ProjectImageRepo {
	return &ProjectImageRepo{db}
}

// PutAtPosition writes image into its slot. An image already in the slot is
// replaced, so a project never holds two images at the same position. On
// return image carries the stored row.
func (r *ProjectImageRepo) PutAtPosition(ctx context.Context, image *models.ProjectImage) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "position"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url"}),
	}).Create(image).Error
	if err != nil {
		return err
	}

	var stored models.ProjectImage
	if err := db.Where("project_id = ? AND position = ?", image.ProjectID, image.Position).First(&stored).Error; err != nil {
		return err
	}
	*image = stored
	return nil
}
