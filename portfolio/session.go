package portfolio

import "sync"

// Session is the ephemeral selection state: the open project modal and the
// image shown in the lightbox.
type Session struct {
	mu      sync.RWMutex
	project *Project
	image   string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SelectProject(p Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneProject(p)
	s.project = &cp
	s.image = ""
}

// ClearProject closes the modal, and the lightbox with it.
func (s *Session) ClearProject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = nil
	s.image = ""
}

func (s *Session) SelectImage(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = url
}

func (s *Session) ClearImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = ""
}

func (s *Session) SelectedProject() (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return Project{}, false
	}
	return cloneProject(*s.project), true
}

func (s *Session) SelectedImage() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.image, s.image != ""
}

// ReplaceSelected swaps in fresh data for the open project. It does nothing
// unless a project with the same id is open.
func (s *Session) ReplaceSelected(p Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil || s.project.ID != p.ID {
		return false
	}
	cp := cloneProject(p)
	s.project = &cp
	return true
}
