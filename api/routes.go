package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/amelikova/stage-portfolio/errs"
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the page, the read API, and the admin-guarded mutations
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, rt router) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/", handlers.siteHandler.renderPage())
		r.Get("/projects", handlers.projectHandler.getProjects())
		r.Get("/health", healthCheck(rt.startupTime))

		if rt.uploadDir != "" {
			prefix := strings.TrimSuffix(rt.uploadPrefix, "/") + "/"
			r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(rt.uploadDir))))
		}

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Use(limitBody(rt.maxBodyBytes))

			r.Put("/projects", handlers.projectHandler.attachImage())
			r.Post("/upload", handlers.uploadHandler.uploadImage())
		})
	})
}

func healthCheck(startupTime time.Time) http.HandlerFunc {
	responder := NewResponder(routerLogger())
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]interface{}{
			"status":         "ok",
			"uptime_seconds": int(time.Since(startupTime).Seconds()),
		})
	}
}

func methodNotAllowed() http.HandlerFunc {
	responder := NewResponder(routerLogger())
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewMethodNotAllowedError(r.Method))
	}
}

func notFound() http.HandlerFunc {
	responder := NewResponder(routerLogger())
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("Not found"))
	}
}
