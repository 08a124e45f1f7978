package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/amelikova/stage-portfolio/errs"
	"github.com/amelikova/stage-portfolio/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/site.html
var siteTemplates embed.FS

// siteProfile is the owner information shown in the hero and contacts sections.
type siteProfile struct {
	Name  string
	Bio   string
	Email string
	Phone string
}

type siteSlot struct {
	Position int
	Number   int
	URL      string
}

type siteProject struct {
	models.Project
	Slots []siteSlot
}

type sitePage struct {
	Profile  siteProfile
	Query    string
	Projects []models.Project
	NotFound bool
	Selected *siteProject
}

type siteHandler struct {
	responder    Responder
	logger       zerolog.Logger
	projectRepo  projectRepository
	tmpl         *template.Template
	profile      siteProfile
	gallerySlots int
}

func newSiteHandler(projectRepo projectRepository, profile siteProfile, gallerySlots int) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		projectRepo:  projectRepo,
		tmpl:         template.Must(template.ParseFS(siteTemplates, "templates/site.html")),
		profile:      profile,
		gallerySlots: gallerySlots,
	}
}

// renderPage serves the portfolio page. ?q= filters the grid, ?project= opens a project.
func (h siteHandler) renderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		var (
			projects []models.Project
			err      error
		)
		if query != "" {
			projects, err = h.projectRepo.Search(r.Context(), query)
		} else {
			projects, err = h.projectRepo.FindAll(r.Context())
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		page := sitePage{
			Profile:  h.profile,
			Query:    query,
			Projects: projects,
			NotFound: len(projects) == 0,
		}

		status := http.StatusOK
		if idStr := r.URL.Query().Get("project"); idStr != "" {
			selected, err := h.selectedProject(r, idStr)
			switch {
			case errs.IsNotFound(err):
				status = http.StatusNotFound
			case err != nil:
				h.responder.WriteError(w, err)
				return
			default:
				page.Selected = selected
			}
		}

		var buf bytes.Buffer
		if err := h.tmpl.Execute(&buf, page); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("render page", err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}

func (h siteHandler) selectedProject(r *http.Request, idStr string) (*siteProject, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errs.NewNotFoundError("Project not found")
	}
	project, err := h.projectRepo.FindByID(r.Context(), id)
	if err != nil {
		return nil, wrapDatabaseError("find", "project", err)
	}
	return &siteProject{Project: *project, Slots: gallerySlots(project.Images, h.gallerySlots)}, nil
}

// gallerySlots lays images out over n fixed slots; slots with no image have an empty URL.
// The first image at a position holds its slot.
func gallerySlots(images []models.ProjectImage, n int) []siteSlot {
	slots := make([]siteSlot, n)
	for i := range slots {
		slots[i] = siteSlot{Position: i, Number: i + 1}
	}
	for _, img := range images {
		if img.Position >= 0 && img.Position < n && slots[img.Position].URL == "" {
			slots[img.Position].URL = img.ImageURL
		}
	}
	return slots
}
