package portfolio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFixture struct {
	api     *fakeAPI
	store   *ProjectStore
	session *Session
	notes   *recordingNotifier
	orphans *recordingOrphans
	gateway *UploadGateway

	mu     sync.Mutex
	states []UploadState
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	f := &gatewayFixture{
		api:     &fakeAPI{projects: fixtureProjects(), uploadURL: "https://cdn.test/new.png"},
		session: NewSession(),
		notes:   &recordingNotifier{},
		orphans: &recordingOrphans{},
	}
	f.store = NewProjectStore(f.api, WithStoreNotifier(f.notes))
	f.gateway = NewUploadGateway(f.api, f.store, f.session,
		WithGatewayNotifier(f.notes),
		WithOrphanReporter(f.orphans),
		WithStateObserver(func(s UploadState) {
			f.mu.Lock()
			f.states = append(f.states, s)
			f.mu.Unlock()
		}),
	)
	require.NoError(t, f.store.Refresh(context.Background()))
	return f
}

func (f *gatewayFixture) stateLog() []UploadState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UploadState(nil), f.states...)
}

func (f *gatewayFixture) open(t *testing.T, id string) Project {
	t.Helper()
	p, ok := f.store.Project(id)
	require.True(t, ok)
	f.session.SelectProject(p)
	return p
}

type recordingOrphans struct {
	orphans []Orphan
}

func (r *recordingOrphans) ReportOrphan(_ context.Context, o Orphan) error {
	r.orphans = append(r.orphans, o)
	return nil
}

var successPath = []UploadState{StateReading, StateUploading, StateAttaching, StateRefreshing, StateIdle}

// Scenario B: a cover upload with the modal open updates the modal's cover.
func TestUploadCover_UpdatesOpenModal(t *testing.T) {
	f := newGatewayFixture(t)
	f.open(t, "3")

	require.NoError(t, f.gateway.UploadCover(context.Background(), "3", writeImage(t)))

	assert.Equal(t, successPath, f.stateLog())
	open, ok := f.session.SelectedProject()
	require.True(t, ok)
	assert.Equal(t, "https://cdn.test/new.png", open.CoverImage)
	stored, _ := f.store.Project("3")
	assert.Equal(t, "https://cdn.test/new.png", stored.CoverImage)
	assert.Equal(t, []Notification{coverUploaded}, f.notes.all())
	assert.False(t, f.gateway.Uploading())

	require.Len(t, f.api.attached, 1)
	assert.Equal(t, KindCover, f.api.attached[0].Type)
	assert.Nil(t, f.api.attached[0].Position)
}

// Scenario C: a gallery upload at slot 2 leaves the other slots alone.
func TestUploadGallery_ResyncsOpenModal(t *testing.T) {
	f := newGatewayFixture(t)
	before := f.open(t, "3")

	require.NoError(t, f.gateway.UploadGallery(context.Background(), "3", 2, writeImage(t)))

	assert.Equal(t, successPath, f.stateLog())
	open, ok := f.session.SelectedProject()
	require.True(t, ok)
	img, ok := open.Slot(2)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.test/new.png", img.URL)
	for _, pos := range []int{0, 1, 3, 4} {
		want, wantOK := before.Slot(pos)
		got, gotOK := open.Slot(pos)
		assert.Equal(t, wantOK, gotOK, "slot %d", pos)
		assert.Equal(t, want, got, "slot %d", pos)
	}
	assert.Equal(t, []string{"list", "upload", "attach", "list", "get"}, f.api.callLog())
	assert.Equal(t, []Notification{galleryUploaded}, f.notes.all())
	assert.False(t, f.gateway.Uploading())
}

func TestUploadGallery_OtherProjectOpenIsNotReplaced(t *testing.T) {
	f := newGatewayFixture(t)
	f.open(t, "1")

	require.NoError(t, f.gateway.UploadGallery(context.Background(), "3", 1, writeImage(t)))

	open, _ := f.session.SelectedProject()
	assert.Equal(t, "1", open.ID)
	assert.Empty(t, open.Images)
	assert.NotContains(t, f.api.callLog(), "get")
}

func TestUploadGallery_NoModalOnlyReloads(t *testing.T) {
	f := newGatewayFixture(t)

	require.NoError(t, f.gateway.UploadGallery(context.Background(), "1", 0, writeImage(t)))

	stored, _ := f.store.Project("1")
	img, ok := stored.Slot(0)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.test/new.png", img.URL)
	assert.Equal(t, []string{"list", "upload", "attach", "list"}, f.api.callLog())
}

// Scenario D: a rejected upload never attaches or reloads.
func TestUpload_RejectedUploadStopsEarly(t *testing.T) {
	f := newGatewayFixture(t)
	before := f.open(t, "3")
	f.api.uploadErr = errors.New("upload was not accepted")

	err := f.gateway.UploadGallery(context.Background(), "3", 2, writeImage(t))

	require.ErrorIs(t, err, ErrUpload)
	assert.Equal(t, []string{"list", "upload"}, f.api.callLog())
	assert.Equal(t, []UploadState{StateReading, StateUploading, StateFailed, StateIdle}, f.stateLog())
	open, _ := f.session.SelectedProject()
	assert.Equal(t, before, open)
	assert.Equal(t, fixtureProjects(), f.store.Projects())
	assert.Equal(t, []Notification{uploadFailed}, f.notes.all())
	assert.False(t, f.gateway.Uploading())
}

func TestUpload_ReadFailure(t *testing.T) {
	f := newGatewayFixture(t)

	err := f.gateway.UploadCover(context.Background(), "3", filepath.Join(t.TempDir(), "missing.png"))

	require.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, []string{"list"}, f.api.callLog())
	assert.Equal(t, []UploadState{StateReading, StateFailed, StateIdle}, f.stateLog())
	assert.Equal(t, []Notification{readFailed}, f.notes.all())
}

func TestUpload_AttachFailureReportsOrphan(t *testing.T) {
	f := newGatewayFixture(t)
	f.api.attachErr = &StatusError{StatusCode: 500, Message: "Internal Server Error"}

	err := f.gateway.UploadGallery(context.Background(), "3", 4, writeImage(t))

	require.ErrorIs(t, err, ErrAttach)
	assert.Equal(t, []string{"list", "upload", "attach"}, f.api.callLog())
	assert.Equal(t, []Notification{attachFailed}, f.notes.all())
	require.Len(t, f.orphans.orphans, 1)
	orphan := f.orphans.orphans[0]
	assert.Equal(t, "3", orphan.ProjectID)
	assert.Equal(t, "https://cdn.test/new.png", orphan.URL)
	assert.Equal(t, KindGallery, orphan.Kind)
	assert.Equal(t, 4, orphan.Position)
	assert.ErrorIs(t, orphan.Err, ErrAttach)

	var statusErr *StatusError
	require.ErrorAs(t, orphan.Err, &statusErr)
	assert.Equal(t, 500, statusErr.StatusCode)
}

func TestUpload_ResyncFailureIsOneLoadNotification(t *testing.T) {
	f := newGatewayFixture(t)
	f.open(t, "3")
	f.api.getErr = errors.New("timeout")

	err := f.gateway.UploadGallery(context.Background(), "3", 1, writeImage(t))

	require.ErrorIs(t, err, ErrLoad)
	assert.Equal(t, []Notification{loadFailed}, f.notes.all())
	assert.Equal(t, StateIdle, f.gateway.State())
}

func TestUpload_ReloadFailureIsOneLoadNotification(t *testing.T) {
	f := newGatewayFixture(t)
	f.api.mu.Lock()
	f.api.listErr = errors.New("connection reset")
	f.api.mu.Unlock()

	err := f.gateway.UploadCover(context.Background(), "3", writeImage(t))

	require.ErrorIs(t, err, ErrLoad)
	assert.Equal(t, []Notification{loadFailed}, f.notes.all())
}

func TestUpload_SecondUploadWhileBusyIsRejected(t *testing.T) {
	f := newGatewayFixture(t)
	path := writeImage(t)

	var nested error
	var once sync.Once
	gateway := NewUploadGateway(f.api, f.store, f.session,
		WithGatewayNotifier(f.notes),
		WithStateObserver(func(s UploadState) {
			if s == StateUploading {
				once.Do(func() {
					nested = f.gateway.UploadCover(context.Background(), "1", path)
				})
			}
		}),
	)
	f.gateway = gateway

	require.NoError(t, gateway.UploadCover(context.Background(), "3", path))

	assert.ErrorIs(t, nested, ErrUploadInProgress)
	assert.Equal(t, []Notification{coverUploaded}, f.notes.all())
}

func TestEncode(t *testing.T) {
	g := NewUploadGateway(&fakeAPI{}, NewProjectStore(&fakeAPI{}), NewSession())

	dataURL, err := g.Encode(writeImage(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,iVBOR"), dataURL)

	empty := filepath.Join(t.TempDir(), "empty.jpg")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = g.Encode(empty)
	assert.ErrorIs(t, err, ErrRead)
}

func TestEncode_FallsBackToExtension(t *testing.T) {
	g := NewUploadGateway(&fakeAPI{}, NewProjectStore(&fakeAPI{}), NewSession())
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))

	dataURL, err := g.Encode(path)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"), dataURL)
}
