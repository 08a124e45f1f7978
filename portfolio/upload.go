package portfolio

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Orphan is an image that was uploaded but never attached to its project.
type Orphan struct {
	ProjectID string
	URL       string
	Kind      ImageKind
	Position  int
	Err       error
}

// OrphanReporter is told about uploads whose attach failed. Nothing is deleted.
type OrphanReporter interface {
	ReportOrphan(ctx context.Context, orphan Orphan) error
}

// UploadGateway runs the upload protocol: encode, upload, attach, reload the
// store, resync the open modal. One upload runs at a time per gateway.
type UploadGateway struct {
	api      API
	store    *ProjectStore
	session  *Session
	notifier Notifier
	orphans  OrphanReporter
	logger   zerolog.Logger

	mu        sync.Mutex
	state     UploadState
	observers []func(UploadState)
}

type GatewayOption func(*UploadGateway)

func WithGatewayNotifier(n Notifier) GatewayOption {
	return func(g *UploadGateway) {
		g.notifier = n
	}
}

func WithOrphanReporter(r OrphanReporter) GatewayOption {
	return func(g *UploadGateway) {
		g.orphans = r
	}
}

// WithStateObserver registers fn to be called on every state transition.
func WithStateObserver(fn func(UploadState)) GatewayOption {
	return func(g *UploadGateway) {
		g.observers = append(g.observers, fn)
	}
}

func NewUploadGateway(api API, store *ProjectStore, session *Session, opts ...GatewayOption) *UploadGateway {
	g := &UploadGateway{
		api:      api,
		store:    store,
		session:  session,
		notifier: discardNotifier{},
		logger:   log.With().Str("component", "uploadGateway").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *UploadGateway) State() UploadState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Uploading is the flag that gates the upload controls.
func (g *UploadGateway) Uploading() bool {
	return g.State().Busy()
}

// Encode reads a local file into a data URL.
func (g *UploadGateway) Encode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrRead, path)
	}
	return "data:" + contentType(path, data) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func contentType(path string, data []byte) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload posts an encoded file and returns its hosted URL.
func (g *UploadGateway) Upload(ctx context.Context, dataURL string) (string, error) {
	url, err := g.api.UploadImage(ctx, dataURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return url, nil
}

// Attach associates an uploaded URL with the project's cover or a gallery
// slot. Slot occupancy is the backend's call.
func (g *UploadGateway) Attach(ctx context.Context, projectID, imageURL string, kind ImageKind, position int) error {
	req := AttachRequest{ProjectID: projectID, ImageURL: imageURL, Type: kind}
	if kind == KindGallery {
		req.Position = &position
	}
	if err := g.api.AttachImage(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrAttach, err)
	}
	return nil
}

// UploadCover replaces the project's cover image with the file at path.
func (g *UploadGateway) UploadCover(ctx context.Context, projectID, path string) error {
	return g.run(ctx, uploadJob{projectID: projectID, kind: KindCover, path: path})
}

// UploadGallery puts the file at path into gallery slot position.
func (g *UploadGateway) UploadGallery(ctx context.Context, projectID string, position int, path string) error {
	return g.run(ctx, uploadJob{projectID: projectID, kind: KindGallery, position: position, path: path})
}

type uploadJob struct {
	projectID string
	kind      ImageKind
	position  int
	path      string
}

func (g *UploadGateway) run(ctx context.Context, job uploadJob) error {
	if !g.begin() {
		return ErrUploadInProgress
	}

	logger := g.logger.With().
		Str("projectID", job.projectID).
		Str("kind", string(job.kind)).
		Int("position", job.position).
		Logger()

	dataURL, err := g.Encode(job.path)
	if err != nil {
		return g.fail(logger, err)
	}

	g.setState(StateUploading)
	url, err := g.Upload(ctx, dataURL)
	if err != nil {
		return g.fail(logger, err)
	}

	g.setState(StateAttaching)
	if err := g.Attach(ctx, job.projectID, url, job.kind, job.position); err != nil {
		g.reportOrphan(ctx, logger, job, url, err)
		return g.fail(logger, err)
	}

	g.setState(StateRefreshing)
	if err := g.store.reload(ctx); err != nil {
		return g.fail(logger, err)
	}
	if err := g.resync(ctx, job); err != nil {
		return g.fail(logger, err)
	}

	logger.Info().Str("url", url).Msg("Image uploaded and attached")
	if job.kind == KindCover {
		g.notifier.Notify(coverUploaded)
	} else {
		g.notifier.Notify(galleryUploaded)
	}
	g.setState(StateIdle)
	return nil
}

// resync refreshes the open modal when it shows the uploaded project.
func (g *UploadGateway) resync(ctx context.Context, job uploadJob) error {
	open, ok := g.session.SelectedProject()
	if !ok || open.ID != job.projectID {
		return nil
	}

	if job.kind == KindCover {
		if fresh, ok := g.store.Project(job.projectID); ok {
			g.session.ReplaceSelected(fresh)
		}
		return nil
	}

	fresh, err := g.api.GetProject(ctx, job.projectID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	g.session.ReplaceSelected(fresh)
	return nil
}

func (g *UploadGateway) reportOrphan(ctx context.Context, logger zerolog.Logger, job uploadJob, url string, cause error) {
	logger.Warn().Str("url", url).Err(cause).Msg("Uploaded image was not attached")
	if g.orphans == nil {
		return
	}
	orphan := Orphan{ProjectID: job.projectID, URL: url, Kind: job.kind, Position: job.position, Err: cause}
	if err := g.orphans.ReportOrphan(ctx, orphan); err != nil {
		logger.Error().Err(err).Str("url", url).Msg("Failed to report orphaned upload")
	}
}

// begin takes the busy gate and moves to reading.
func (g *UploadGateway) begin() bool {
	g.mu.Lock()
	if g.state.Busy() {
		g.mu.Unlock()
		return false
	}
	g.state = StateReading
	observers := g.observers
	g.mu.Unlock()

	for _, fn := range observers {
		fn(StateReading)
	}
	return true
}

func (g *UploadGateway) fail(logger zerolog.Logger, err error) error {
	logger.Error().Err(err).Str("state", g.State().String()).Msg("Upload failed")
	g.setState(StateFailed)
	g.notifier.Notify(failureNotification(err))
	g.setState(StateIdle)
	return err
}

func (g *UploadGateway) setState(state UploadState) {
	g.mu.Lock()
	g.state = state
	observers := g.observers
	g.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
