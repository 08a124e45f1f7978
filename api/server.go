package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amelikova/stage-portfolio/config"
	"github.com/amelikova/stage-portfolio/database"
	"github.com/amelikova/stage-portfolio/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, store storage.ImageStore, c map[string]string) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(db.ProjectRepo(), db.ProjectImageRepo(), store, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config       map[string]string
	startupTime  time.Time
	uploadDir    string
	uploadPrefix string
	maxBodyBytes int64
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func routerLogger() zerolog.Logger {
	return log.With().Str("handlerName", "router").Logger()
}

func newRouter(projects projectRepository, images imageRepository, store storage.ImageStore, opts ...func(*router)) *chi.Mux {
	rt := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&rt)
	}
	rt.maxBodyBytes = int64(config.GetInt(rt.config, "MAX_UPLOAD_BYTES", 15<<20))

	// Locally stored uploads are served back by this router
	if local, ok := store.(*storage.LocalStore); ok {
		rt.uploadDir = local.Dir
		rt.uploadPrefix = local.PublicPrefix
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetList(rt.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins: acceptedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))
	chiRouter.MethodNotAllowed(methodNotAllowed())
	chiRouter.NotFound(notFound())

	handlers := initializeHandlers(projects, images, store, rt.config)
	authMiddleware := newAuthMiddleware(config.GetString(rt.config, "ADMIN_JWT_SECRET", ""))

	setupRoutes(chiRouter, handlers, authMiddleware, rt)

	return chiRouter
}

// Start serves until the listener fails or the server is shut down. Only a
// listener failure is sent on errChannel.
func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
