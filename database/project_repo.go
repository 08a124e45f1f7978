package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amelikova/stage-portfolio/errs"
	"github.com/amelikova/stage-portfolio/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// withImages preloads gallery images in slot order.
func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindAll returns all projects in display order.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := withImages(r.db.WithContext(ctx)).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

// Search returns the projects whose title contains query, ignoring case.
func (r *ProjectRepo) Search(ctx context.Context, query string) ([]models.Project, error) {
	var projects []models.Project
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := withImages(r.db.WithContext(ctx)).
		Where("LOWER(title) LIKE ?", pattern).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := withImages(r.db.WithContext(ctx)).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundError("Project not found")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Count returns the number of stored projects.
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, err
}

// Add inserts a new project together with its gallery images.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// AddAll inserts the projects in one transaction; a failed insert leaves none behind.
func (r *ProjectRepo) AddAll(ctx context.Context, projects []models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range projects {
			if err := tx.Create(&projects[i]).Error; err != nil {
				return fmt.Errorf("insert %q: %w", projects[i].Title, err)
			}
		}
		return nil
	})
}

// SetCover replaces the cover image URL and returns the updated project.
func (r *ProjectRepo) SetCover(ctx context.Context, id uuid.UUID, imageURL string) (*models.Project, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Update("cover_image_url", imageURL)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFoundError("Project not found")
	}
	return r.FindByID(ctx, id)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
