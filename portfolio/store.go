package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
)

// ProjectStore holds the project collection the view renders from.
// The collection is only ever replaced wholesale.
type ProjectStore struct {
	api      API
	notifier Notifier
	logger   zerolog.Logger

	mu       sync.RWMutex
	projects []Project
	inflight int
}

type StoreOption func(*ProjectStore)

func WithStoreNotifier(n Notifier) StoreOption {
	return func(s *ProjectStore) {
		s.notifier = n
	}
}

func NewProjectStore(api API, opts ...StoreOption) *ProjectStore {
	s := &ProjectStore{
		api:      api,
		notifier: discardNotifier{},
		logger:   log.With().Str("component", "projectStore").Logger(),
		projects: []Project{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the collection. On failure the collection is left as it
// was and one load notification is raised.
func (s *ProjectStore) Refresh(ctx context.Context) error {
	if err := s.reload(ctx); err != nil {
		s.notifier.Notify(loadFailed)
		return err
	}
	return nil
}

// reload is Refresh without the notification, for callers that report
// failures themselves.
func (s *ProjectStore) reload(ctx context.Context) error {
	s.trackLoad(1)
	defer s.trackLoad(-1)

	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load projects")
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s.mu.Lock()
	s.projects = cloneProjects(projects)
	s.mu.Unlock()

	s.logger.Debug().Int("count", len(projects)).Msg("Projects loaded")
	return nil
}

func (s *ProjectStore) trackLoad(delta int) {
	s.mu.Lock()
	s.inflight += delta
	s.mu.Unlock()
}

// Loading reports whether any reload is still in flight.
func (s *ProjectStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Projects returns a copy of the collection in endpoint order.
func (s *ProjectStore) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.projects)
}

func (s *ProjectStore) Project(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return cloneProject(p), true
		}
	}
	return Project{}, false
}

// Filter returns the projects whose title contains query, ignoring case.
// Order is preserved. An empty query returns everything; no match returns an
// empty, non-nil slice.
func (s *ProjectStore) Filter(query string) []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterProjects(s.projects, query)
}

// FilterProjects is the pure form of ProjectStore.Filter.
func FilterProjects(projects []Project, query string) []Project {
	if query == "" {
		return cloneProjects(projects)
	}
	fold := cases.Fold()
	needle := fold.String(query)

	out := []Project{}
	for _, p := range projects {
		if strings.Contains(fold.String(p.Title), needle) {
			out = append(out, cloneProject(p))
		}
	}
	return out
}
