package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amelikova/stage-portfolio/errs"
	"github.com/amelikova/stage-portfolio/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// projectRepository is the project storage the handlers read and write.
type projectRepository interface {
	FindAll(ctx context.Context) ([]models.Project, error)
	Search(ctx context.Context, query string) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	SetCover(ctx context.Context, id uuid.UUID, imageURL string) (*models.Project, error)
}

// imageRepository stores gallery slots.
type imageRepository interface {
	PutAtPosition(ctx context.Context, image *models.ProjectImage) error
}

type projectHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  projectRepository
	imageRepo    imageRepository
	gallerySlots int
}

func newProjectHandler(projectRepo projectRepository, imageRepo imageRepository, gallerySlots int) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		imageRepo:    imageRepo,
		gallerySlots: gallerySlots,
	}
}

// getProjects lists projects, searches them, or returns one project
// @Summary List projects
// @Description Without parameters returns every project with its gallery. `search` filters by
// @Description case-insensitive title substring; `project_id` returns that single project.
// @Tags Projects
// @Produce json
// @Param search query string false "Title substring"
// @Param project_id query string false "Project ID" format(uuid)
// @Success 200 {array} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project_id"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if projectIDStr := query.Get("project_id"); projectIDStr != "" {
			projectID, err := uuid.Parse(projectIDStr)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("project_id", "not a valid id"))
				return
			}

			project, err := h.projectRepo.FindByID(r.Context(), projectID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
				return
			}

			h.responder.WriteJSON(w, normalizeProject(*project))
			return
		}

		var (
			projects []models.Project
			err      error
		)
		if search := strings.TrimSpace(query.Get("search")); search != "" {
			projects, err = h.projectRepo.Search(r.Context(), search)
		} else {
			projects, err = h.projectRepo.FindAll(r.Context())
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, normalizeProjects(projects))
	}
}

// attachImage points a project's cover or one of its gallery slots at an uploaded image
// @Summary Attach image
// @Description `type` is "cover" or "gallery" (default). Gallery images take slot `position`
// @Description (default 0); an image already in that slot is replaced.
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body AttachRequest true "Attach request"
// @Success 200 {object} GalleryAttachResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid fields"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects [put]
func (h projectHandler) attachImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AttachRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode attach request body")
			h.responder.WriteError(w, bodyError("attach", err))
			return
		}

		req.ProjectID = strings.TrimSpace(req.ProjectID)
		req.ImageURL = strings.TrimSpace(req.ImageURL)
		if req.ProjectID == "" || req.ImageURL == "" {
			field := "project_id"
			if req.ProjectID != "" {
				field = "image_url"
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("project_id and image_url are required", field))
			return
		}

		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("project_id", "not a valid id"))
			return
		}

		logger := h.logger.With().
			Str("projectID", projectID.String()).
			Str("admin", ctxGetAdminSubject(r.Context())).
			Logger()

		switch req.Type {
		case imageTypeCover:
			project, err := h.projectRepo.SetCover(r.Context(), projectID, req.ImageURL)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update cover of", "project", err))
				return
			}
			logger.Info().Str("url", req.ImageURL).Msg("Cover image attached")

			h.responder.WriteJSON(w, CoverAttachResponse{
				Success:       true,
				ProjectID:     project.ID.String(),
				Title:         project.Title,
				CoverImageURL: project.CoverImageURL,
			})

		case imageTypeGallery, "":
			position := 0
			if req.Position != nil {
				position = *req.Position
			}
			if position < 0 || position >= h.gallerySlots {
				h.responder.WriteError(w, errs.NewInvalidFieldError("position",
					fmt.Sprintf("must be between 0 and %d", h.gallerySlots-1)))
				return
			}

			// Verify project exists
			if _, err := h.projectRepo.FindByID(r.Context(), projectID); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
				return
			}

			image := models.ProjectImage{ProjectID: projectID, ImageURL: req.ImageURL, Position: position}
			if err := h.imageRepo.PutAtPosition(r.Context(), &image); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("store", "project image", err))
				return
			}
			logger.Info().Int("position", position).Str("url", req.ImageURL).Msg("Gallery image attached")

			h.responder.WriteJSON(w, GalleryAttachResponse{
				Success:  true,
				ImageID:  image.ID.String(),
				ImageURL: image.ImageURL,
				Position: image.Position,
			})

		default:
			h.responder.WriteError(w, errs.NewInvalidFieldError("type", `must be "cover" or "gallery"`))
		}
	}
}

// normalizeProject makes an empty gallery encode as [] rather than null.
func normalizeProject(p models.Project) models.Project {
	if p.Images == nil {
		p.Images = []models.ProjectImage{}
	}
	return p
}

func normalizeProjects(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, normalizeProject(p))
	}
	return out
}
