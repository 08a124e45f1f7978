// cmd/portfolio/main.go
//
// Interactive terminal client for the portfolio backend. Endpoints come from
// PORTFOLIO_PROJECTS_URL / PORTFOLIO_UPLOAD_URL or the deploy-time endpoints
// file; logs go to PORTFOLIO_LOG_FILE because the terminal belongs to the UI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amelikova/stage-portfolio/config"
	"github.com/amelikova/stage-portfolio/portfolio"
	"github.com/amelikova/stage-portfolio/services"
	"github.com/amelikova/stage-portfolio/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment")
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := portfolio.NewClient(cfg.ProjectsURL, cfg.UploadURL,
		portfolio.WithToken(cfg.AdminToken),
		portfolio.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)

	env := config.New()
	opts := []tui.AppOption{
		tui.WithContext(ctx),
		tui.WithProfile(tui.Profile{
			Name:  config.GetString(env, "SITE_OWNER_NAME", "Алиса Меликова"),
			Bio:   config.GetString(env, "SITE_OWNER_BIO", ""),
			Email: config.GetString(env, "CONTACT_EMAIL", ""),
			Phone: config.GetString(env, "CONTACT_PHONE", ""),
		}),
	}
	if reporter := orphanReporter(cfg); reporter != nil {
		opts = append(opts, tui.WithOrphanReporter(reporter))
	}

	log.Info().Str("projects", cfg.ProjectsURL).Str("upload", cfg.UploadURL).Msg("Starting portfolio client")

	p := tea.NewProgram(tui.NewApp(api, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("TUI exited with error")
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// orphanReporter mails the owner about unattached uploads when Resend is configured.
func orphanReporter(cfg config.Client) portfolio.OrphanReporter {
	if !cfg.OrphanReportsEnabled() {
		return nil
	}
	mailer, err := services.NewMailer(cfg.ResendAPIKey, cfg.ResendFromEmail)
	if err != nil {
		log.Warn().Err(err).Msg("Orphaned upload reports disabled")
		return nil
	}
	reporter, err := services.NewOrphanMailer(mailer, cfg.OwnerEmail)
	if err != nil {
		log.Warn().Err(err).Msg("Orphaned upload reports disabled")
		return nil
	}
	return reporter
}
