package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func namingDB() *gorm.DB {
	return &gorm.DB{Config: &gorm.Config{NamingStrategy: schema.NamingStrategy{}}}
}

func TestModelColumns(t *testing.T) {
	db := namingDB()

	assert.Equal(t,
		[]string{"id", "title", "description", "cover_image_url", "sort_order", "created_at", "updated_at"},
		modelColumns(db, Project{}))
	assert.Equal(t,
		[]string{"id", "project_id", "image_url", "position", "created_at"},
		modelColumns(db, ProjectImage{}))
}

func TestExtractColumnNameFromGormTag(t *testing.T) {
	assert.Equal(t, "cover_image_url", extractColumnNameFromGormTag("column:cover_image_url;type:text;not null"))
	assert.Equal(t, "image_url", extractColumnNameFromGormTag("type:text; column:image_url"))
	assert.Empty(t, extractColumnNameFromGormTag("type:uuid;primaryKey"))
}

func TestFindColumnMismatches(t *testing.T) {
	mismatches := findColumnMismatches(
		[]string{"id", "title", "legacy_slug", "cover_image_url"},
		modelColumns(namingDB(), Project{}),
	)

	assert.Equal(t, []string{"legacy_slug"}, mismatches)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "title"}))
}
