package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Endpoint names in the deploy-time function mapping.
const (
	ProjectsEndpoint = "projects"
	UploadEndpoint   = "upload"
)

// Client is the configuration of the interactive portfolio client.
type Client struct {
	EndpointsFile string        `env:"PORTFOLIO_ENDPOINTS_FILE" envDefault:"func2url.json"`
	ProjectsURL   string        `env:"PORTFOLIO_PROJECTS_URL"`
	UploadURL     string        `env:"PORTFOLIO_UPLOAD_URL"`
	AdminToken    string        `env:"PORTFOLIO_ADMIN_TOKEN"`
	Timeout       time.Duration `env:"PORTFOLIO_HTTP_TIMEOUT" envDefault:"30s"`
	LogFile       string        `env:"PORTFOLIO_LOG_FILE" envDefault:"portfolio.log"`

	// Orphaned upload reports; disabled unless all three are set.
	ResendAPIKey    string `env:"RESEND_API_KEY"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL"`
	OwnerEmail      string `env:"OWNER_EMAIL"`
}

// OrphanReportsEnabled reports whether the Resend key, sender and owner address are all set.
func (c Client) OrphanReportsEnabled() bool {
	return c.ResendAPIKey != "" && c.ResendFromEmail != "" && c.OwnerEmail != ""
}

// LoadClient parses the client configuration from the environment and fills
// any endpoint left unset from the endpoints file.
func LoadClient() (Client, error) {
	var c Client
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}

	if c.ProjectsURL == "" || c.UploadURL == "" {
		endpoints, err := LoadEndpoints(c.EndpointsFile)
		if err != nil {
			return c, err
		}
		if c.ProjectsURL == "" {
			c.ProjectsURL = endpoints[ProjectsEndpoint]
		}
		if c.UploadURL == "" {
			c.UploadURL = endpoints[UploadEndpoint]
		}
	}

	if c.ProjectsURL == "" {
		return c, errors.New("projects endpoint is not configured")
	}
	if c.UploadURL == "" {
		return c, errors.New("upload endpoint is not configured")
	}
	return c, nil
}

// LoadEndpoints reads a name -> URL mapping produced at deploy time.
func LoadEndpoints(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	endpoints := map[string]string{}
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return nil, fmt.Errorf("decode endpoints file %s: %w", path, err)
	}
	return endpoints, nil
}
