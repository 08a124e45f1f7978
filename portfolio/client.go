package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// API is the remote backend the store and the gateway talk to.
type API interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	UploadImage(ctx context.Context, dataURL string) (string, error)
	AttachImage(ctx context.Context, req AttachRequest) error
}

// AttachRequest is the body of the attach call. Position is sent only for gallery images.
type AttachRequest struct {
	ProjectID string    `json:"project_id"`
	ImageURL  string    `json:"image_url"`
	Type      ImageKind `json:"type"`
	Position  *int      `json:"position,omitempty"`
}

type uploadRequest struct {
	Image string `json:"image"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Client is the HTTP implementation of API.
type Client struct {
	projectsURL string
	uploadURL   string
	token       string
	httpClient  *http.Client
}

type ClientOption func(*Client)

// WithToken sends an admin bearer token on mutating requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(projectsURL, uploadURL string, opts ...ClientOption) *Client {
	c := &Client{
		projectsURL: projectsURL,
		uploadURL:   uploadURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, c.projectsURL, nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (Project, error) {
	u, err := url.Parse(c.projectsURL)
	if err != nil {
		return Project{}, err
	}
	q := u.Query()
	q.Set("project_id", id)
	u.RawQuery = q.Encode()

	var project Project
	if err := c.do(ctx, http.MethodGet, u.String(), nil, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// UploadImage posts a data URL and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, dataURL string) (string, error) {
	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, c.uploadURL, uploadRequest{Image: dataURL}, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", errors.New("upload was not accepted")
	}
	if resp.URL == "" {
		return "", errors.New("upload response has no url")
	}
	return resp.URL, nil
}

func (c *Client) AttachImage(ctx context.Context, req AttachRequest) error {
	return c.do(ctx, http.MethodPut, c.projectsURL, req, nil)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" && method != http.MethodGet {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &payload)
	return &StatusError{StatusCode: resp.StatusCode, Message: payload.Error}
}
