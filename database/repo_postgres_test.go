package database

import (
	"context"
	"os"
	"testing"

	"github.com/amelikova/stage-portfolio/errs"
	"github.com/amelikova/stage-portfolio/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// postgresDB opens TEST_DATABASE_URL, migrates it and empties the portfolio
// tables. Tests using it are skipped when the variable is unset.
func postgresDB(t *testing.T) *Database {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error)
	require.NoError(t, models.Migrate(db))

	clean := func() {
		db.Exec("DELETE FROM project_images")
		db.Exec("DELETE FROM projects")
	}
	clean()
	t.Cleanup(clean)

	d := New(db)
	return &d
}

func addProject(t *testing.T, d *Database, title string, sortOrder int) *models.Project {
	t.Helper()
	p := &models.Project{Title: title, Description: title, CoverImageURL: "/placeholder.svg", SortOrder: sortOrder}
	require.NoError(t, d.ProjectRepo().Add(context.Background(), p))
	return p
}

func TestPutAtPosition_ReplacesImageInSlot(t *testing.T) {
	d := postgresDB(t)
	ctx := context.Background()
	p := addProject(t, d, "Лавр", 0)

	first := &models.ProjectImage{ProjectID: p.ID, ImageURL: "/uploads/old.jpg", Position: 2}
	require.NoError(t, d.ProjectImageRepo().PutAtPosition(ctx, first))

	second := &models.ProjectImage{ProjectID: p.ID, ImageURL: "/uploads/new.jpg", Position: 2}
	require.NoError(t, d.ProjectImageRepo().PutAtPosition(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "/uploads/new.jpg", second.ImageURL)

	stored, err := d.ProjectRepo().FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Images, 1)
	assert.Equal(t, 2, stored.Images[0].Position)
	assert.Equal(t, "/uploads/new.jpg", stored.Images[0].ImageURL)
}

func TestFindByID_ImagesOrderedByPosition(t *testing.T) {
	d := postgresDB(t)
	ctx := context.Background()
	p := addProject(t, d, "Эзоп", 0)

	for _, pos := range []int{4, 0, 2} {
		img := &models.ProjectImage{ProjectID: p.ID, ImageURL: "/uploads/slot.jpg", Position: pos}
		require.NoError(t, d.ProjectImageRepo().PutAtPosition(ctx, img))
	}

	stored, err := d.ProjectRepo().FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Images, 3)
	assert.Equal(t, 0, stored.Images[0].Position)
	assert.Equal(t, 2, stored.Images[1].Position)
	assert.Equal(t, 4, stored.Images[2].Position)
}

func TestFindAll_OrderedBySortOrder(t *testing.T) {
	d := postgresDB(t)
	addProject(t, d, "Выбор героя", 2)
	addProject(t, d, "Розовое платье", 0)
	addProject(t, d, "Лавр", 1)

	projects, err := d.ProjectRepo().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Розовое платье", projects[0].Title)
	assert.Equal(t, "Лавр", projects[1].Title)
	assert.Equal(t, "Выбор героя", projects[2].Title)
}

func TestSearch_CyrillicCaseInsensitive(t *testing.T) {
	d := postgresDB(t)
	ctx := context.Background()
	addProject(t, d, "Лавр", 0)
	addProject(t, d, "Эзоп", 1)

	found, err := d.ProjectRepo().Search(ctx, "лавр")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Лавр", found[0].Title)

	found, err = d.ProjectRepo().Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSetCover(t *testing.T) {
	d := postgresDB(t)
	ctx := context.Background()
	p := addProject(t, d, "Лавр", 0)

	updated, err := d.ProjectRepo().SetCover(ctx, p.ID, "https://cdn.test/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/cover.jpg", updated.CoverImageURL)

	_, err = d.ProjectRepo().SetCover(ctx, uuid.New(), "https://cdn.test/cover.jpg")
	assert.True(t, errs.IsNotFound(err))
}

func TestAddAll_RollsBackOnFailure(t *testing.T) {
	d := postgresDB(t)
	ctx := context.Background()

	dup := uuid.New()
	projects := []models.Project{
		{ID: dup, Title: "Лавр", CoverImageURL: "/placeholder.svg"},
		{ID: dup, Title: "Эзоп", CoverImageURL: "/placeholder.svg"},
	}
	err := d.ProjectRepo().AddAll(ctx, projects)
	assert.ErrorContains(t, err, "Эзоп")

	n, err := d.ProjectRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
