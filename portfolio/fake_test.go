package portfolio

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory backend that applies attaches to its projects.
type fakeAPI struct {
	mu sync.Mutex

	projects  []Project
	listErr   error
	getErr    error
	uploadErr error
	attachErr error
	uploadURL string
	onList    func()

	calls    []string
	attached []AttachRequest
}

func (f *fakeAPI) ListProjects(context.Context) ([]Project, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "list")
	onList := f.onList
	f.mu.Unlock()
	if onList != nil {
		onList()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return cloneProjects(f.projects), nil
}

func (f *fakeAPI) GetProject(_ context.Context, id string) (Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return Project{}, f.getErr
	}
	for _, p := range f.projects {
		if p.ID == id {
			return cloneProject(p), nil
		}
	}
	return Project{}, &StatusError{StatusCode: 404, Message: "Project not found"}
}

func (f *fakeAPI) UploadImage(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadURL, nil
}

func (f *fakeAPI) AttachImage(_ context.Context, req AttachRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "attach")
	f.attached = append(f.attached, req)
	if f.attachErr != nil {
		return f.attachErr
	}
	for i := range f.projects {
		p := &f.projects[i]
		if p.ID != req.ProjectID {
			continue
		}
		if req.Type == KindCover {
			p.CoverImage = req.ImageURL
			return nil
		}
		for j := range p.Images {
			if p.Images[j].Position == *req.Position {
				p.Images[j].URL = req.ImageURL
				return nil
			}
		}
		p.Images = append(p.Images, GalleryImage{ID: "new", URL: req.ImageURL, Position: *req.Position})
		return nil
	}
	return &StatusError{StatusCode: 404, Message: "Project not found"}
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func fixtureProjects() []Project {
	return []Project{
		{ID: "1", Title: "Розовое платье", Description: "Театральная постановка о женской судьбе и выборе.", CoverImage: "/placeholder.svg", Images: []GalleryImage{}},
		{ID: "3", Title: "Лавр", Description: "Постановка по роману Евгения Водолазкина.", CoverImage: "/placeholder.svg", Images: []GalleryImage{
			{ID: "a", URL: "/uploads/a.jpg", Position: 0},
			{ID: "d", URL: "/uploads/d.jpg", Position: 3},
		}},
		{ID: "12", Title: "МХАТ - Сочи", Description: "Постановка для филиала МХАТа в Сочи.", CoverImage: "/placeholder.svg"},
		{ID: "13", Title: "МХАТ - 36 часов", Description: "Интенсивная драма о критическом моменте.", CoverImage: "/placeholder.svg"},
	}
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "set.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))
	return path
}
