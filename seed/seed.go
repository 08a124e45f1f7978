// Package seed loads the initial list of productions into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/amelikova/stage-portfolio/models"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// PlaceholderCover is used for productions that have no cover yet.
const PlaceholderCover = "/placeholder.svg"

//go:embed projects.yaml
var embeddedProjects []byte

type file struct {
	Projects []entry `yaml:"projects"`
}

type entry struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Cover       string   `yaml:"cover"`
	Images      []string `yaml:"images"`
}

// Repo is what Apply needs from the project repository.
type Repo interface {
	Count(ctx context.Context) (int64, error)
	AddAll(ctx context.Context, projects []models.Project) error
}

// Projects returns the embedded productions.
func Projects() ([]models.Project, error) {
	return Parse(embeddedProjects)
}

// Parse decodes a seed document. Gallery images are placed in slots in list order.
func Parse(data []byte) ([]models.Project, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed projects: %w", err)
	}

	projects := make([]models.Project, 0, len(f.Projects))
	for i, e := range f.Projects {
		if e.Title == "" {
			return nil, fmt.Errorf("seed project %d has no title", i)
		}
		p := models.Project{
			Title:         e.Title,
			Description:   e.Description,
			CoverImageURL: e.Cover,
			SortOrder:     i,
		}
		if p.CoverImageURL == "" {
			p.CoverImageURL = PlaceholderCover
		}
		for pos, url := range e.Images {
			p.Images = append(p.Images, models.ProjectImage{ImageURL: url, Position: pos})
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Apply inserts projects when the table is empty. It returns how many were added.
func Apply(ctx context.Context, repo Repo, projects []models.Project) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	if n > 0 {
		log.Info().Int64("existing", n).Msg("Projects table not empty, skipping seed")
		return 0, nil
	}

	if err := repo.AddAll(ctx, projects); err != nil {
		return 0, fmt.Errorf("seed projects: %w", err)
	}
	log.Info().Int("count", len(projects)).Msg("Seeded projects")
	return len(projects), nil
}
