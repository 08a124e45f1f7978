// Package tui is the terminal rendition of the portfolio page: hero, live
// search over the project grid, the project modal with its five gallery
// slots, a lightbox, and the upload prompt.
//
// It follows The Elm Architecture through bubbletea: App holds the screen
// state, Update turns messages into new state, View renders it. Network work
// runs in commands; the shared project and selection state lives in the
// portfolio package and is safe to read from View.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/amelikova/stage-portfolio/portfolio"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// screen is which view is in front.
type screen int

const (
	screenGrid     screen = iota // hero, search, project list
	screenProject                // project modal with gallery slots
	screenLightbox               // a single gallery image
	screenPrompt                 // file path prompt for an upload
)

// Profile is the owner information shown in the hero and contacts.
type Profile struct {
	Name  string
	Bio   string
	Email string
	Phone string
}

var defaultProfile = Profile{
	Name: "Алиса Меликова",
	Bio:  "Художник-постановщик. Театр и кино.",
}

type AppOption func(*App)

func WithProfile(p Profile) AppOption {
	return func(a *App) {
		a.profile = p
	}
}

// WithOrphanReporter forwards uploads that could not be attached.
func WithOrphanReporter(r portfolio.OrphanReporter) AppOption {
	return func(a *App) {
		a.orphans = r
	}
}

func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		a.ctx = ctx
	}
}

// uploadTarget is where the prompted file goes.
type uploadTarget struct {
	kind     portfolio.ImageKind
	position int
}

type refreshDoneMsg struct{ err error }

type uploadDoneMsg struct{ err error }

// toastQueue collects notifications raised inside commands until Update picks them up.
type toastQueue struct {
	mu      sync.Mutex
	pending []portfolio.Notification
}

func (q *toastQueue) Notify(n portfolio.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

func (q *toastQueue) drain() []portfolio.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

type App struct {
	ctx     context.Context
	profile Profile
	orphans portfolio.OrphanReporter

	toasts  *toastQueue
	store   *portfolio.ProjectStore
	session *portfolio.Session
	gateway *portfolio.UploadGateway

	screen     screen
	search     textinput.Model
	pathInput  textinput.Model
	spinner    spinner.Model
	cursor     int
	slotCursor int
	target     uploadTarget
	toast      *portfolio.Notification
	width      int
}

func NewApp(api portfolio.API, opts ...AppOption) *App {
	a := &App{
		ctx:     context.Background(),
		profile: defaultProfile,
		toasts:  &toastQueue{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.store = portfolio.NewProjectStore(api, portfolio.WithStoreNotifier(a.toasts))
	a.session = portfolio.NewSession()
	gatewayOpts := []portfolio.GatewayOption{portfolio.WithGatewayNotifier(a.toasts)}
	if a.orphans != nil {
		gatewayOpts = append(gatewayOpts, portfolio.WithOrphanReporter(a.orphans))
	}
	a.gateway = portfolio.NewUploadGateway(api, a.store, a.session, gatewayOpts...)

	a.search = newInput("Поиск спектакля...")
	a.search.Focus()
	a.pathInput = newInput("/путь/к/фото.jpg")
	a.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	return a
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.refreshCmd(), a.spinner.Tick)
}

func (a *App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: a.store.Refresh(a.ctx)}
	}
}

func (a *App) uploadCmd(projectID string, target uploadTarget, path string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if target.kind == portfolio.KindCover {
			err = a.gateway.UploadCover(a.ctx, projectID, path)
		} else {
			err = a.gateway.UploadGallery(a.ctx, projectID, target.position, path)
		}
		return uploadDoneMsg{err: err}
	}
}

func (a *App) busy() bool {
	return a.store.Loading() || a.gateway.Uploading()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case refreshDoneMsg:
		a.takeToasts()
		a.clampCursor()
		return a, nil

	case uploadDoneMsg:
		a.takeToasts()
		if errors.Is(msg.err, portfolio.ErrUploadInProgress) {
			a.toast = &portfolio.Notification{Level: portfolio.LevelError, Title: "Подождите", Description: "Загрузка уже идёт"}
		}
		a.clampCursor()
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		a.toast = nil
		switch a.screen {
		case screenGrid:
			return a.updateGrid(msg)
		case screenProject:
			return a.updateProject(msg)
		case screenLightbox:
			return a.updateLightbox(msg)
		case screenPrompt:
			return a.updatePrompt(msg)
		}
	}
	return a, nil
}

func (a *App) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := a.store.Filter(a.search.Value())
	switch msg.Type {
	case tea.KeyUp:
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case tea.KeyDown:
		if a.cursor < len(visible)-1 {
			a.cursor++
		}
		return a, nil
	case tea.KeyEnter:
		if a.cursor < len(visible) {
			a.session.SelectProject(visible[a.cursor])
			a.slotCursor = 0
			a.screen = screenProject
		}
		return a, nil
	case tea.KeyCtrlR:
		return a, tea.Batch(a.refreshCmd(), a.spinner.Tick)
	case tea.KeyEsc:
		a.search.SetValue("")
		a.cursor = 0
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.clampCursor()
	return a, cmd
}

func (a *App) updateProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	project, ok := a.session.SelectedProject()
	if !ok {
		a.screen = screenGrid
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.session.ClearProject()
		a.screen = screenGrid
	case "left", "h":
		if a.slotCursor > 0 {
			a.slotCursor--
		}
	case "right", "l":
		if a.slotCursor < portfolio.SlotCount-1 {
			a.slotCursor++
		}
	case "enter":
		if img, ok := project.Slot(a.slotCursor); ok {
			a.session.SelectImage(img.URL)
			a.screen = screenLightbox
			return a, nil
		}
		return a.openPrompt(uploadTarget{kind: portfolio.KindGallery, position: a.slotCursor})
	case "u":
		return a.openPrompt(uploadTarget{kind: portfolio.KindGallery, position: a.slotCursor})
	case "c":
		return a.openPrompt(uploadTarget{kind: portfolio.KindCover})
	}
	return a, nil
}

// openPrompt asks for a file path. Upload controls are disabled while an upload runs.
func (a *App) openPrompt(target uploadTarget) (tea.Model, tea.Cmd) {
	if a.gateway.Uploading() {
		return a, nil
	}
	a.target = target
	a.pathInput.SetValue("")
	a.pathInput.Focus()
	a.screen = screenPrompt
	return a, nil
}

func (a *App) updateLightbox(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		a.session.ClearImage()
		a.screen = screenProject
	}
	return a, nil
}

func (a *App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.pathInput.Blur()
		a.screen = screenProject
		return a, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(a.pathInput.Value())
		if path == "" {
			return a, nil
		}
		a.pathInput.Blur()
		a.screen = screenProject
		project, ok := a.session.SelectedProject()
		if !ok {
			a.screen = screenGrid
			return a, nil
		}
		return a, tea.Batch(a.uploadCmd(project.ID, a.target, path), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.pathInput, cmd = a.pathInput.Update(msg)
	return a, cmd
}

func (a *App) takeToasts() {
	if pending := a.toasts.drain(); len(pending) > 0 {
		last := pending[len(pending)-1]
		a.toast = &last
	}
}

func (a *App) clampCursor() {
	n := len(a.store.Filter(a.search.Value()))
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5F5F5"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D4A373"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555")).Padding(0, 1)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5484D"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#46A758"))
)

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenProject:
		body = a.renderProject()
	case screenLightbox:
		body = a.renderLightbox()
	case screenPrompt:
		body = a.renderPrompt()
	default:
		body = a.renderGrid()
	}

	sections := []string{body}
	if status := a.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if a.toast != nil {
		sections = append(sections, renderToast(*a.toast))
	}
	return strings.Join(sections, "\n\n")
}

func (a *App) renderGrid() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.profile.Name) + "\n")
	if a.profile.Bio != "" {
		b.WriteString(mutedStyle.Render(a.profile.Bio) + "\n")
	}
	b.WriteString("\n" + a.search.View() + "\n\n")
	b.WriteString(accentStyle.Render("Проекты") + "\n")

	visible := a.store.Filter(a.search.Value())
	switch {
	case len(visible) == 0 && a.store.Loading():
		b.WriteString(mutedStyle.Render("Загрузка...") + "\n")
	case len(visible) == 0:
		b.WriteString(mutedStyle.Render("Спектакли не найдены") + "\n")
	default:
		for i, p := range visible {
			marker := "  "
			line := p.Title
			if i == a.cursor {
				marker = "> "
				line = accentStyle.Render(line)
			}
			b.WriteString(marker + line + "\n")
		}
	}

	if contacts := a.renderContacts(); contacts != "" {
		b.WriteString("\n" + contacts + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("↑/↓ выбор · enter открыть · ctrl+r обновить · ctrl+c выход"))
	return b.String()
}

func (a *App) renderContacts() string {
	var parts []string
	if a.profile.Email != "" {
		parts = append(parts, a.profile.Email)
	}
	if a.profile.Phone != "" {
		parts = append(parts, a.profile.Phone)
	}
	if len(parts) == 0 {
		return ""
	}
	return accentStyle.Render("Контакты") + "\n" + strings.Join(parts, " · ")
}

func (a *App) renderProject() string {
	project, ok := a.session.SelectedProject()
	if !ok {
		return a.renderGrid()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(project.Title) + "\n")
	b.WriteString(project.Description + "\n\n")
	b.WriteString(mutedStyle.Render("Обложка: ") + project.CoverImage + "\n\n")
	b.WriteString(accentStyle.Render("Фотогалерея") + "\n")
	for _, slot := range project.Slots() {
		marker := "  "
		if slot.Position == a.slotCursor {
			marker = "> "
		}
		content := mutedStyle.Render("+ Добавить фото")
		if slot.Filled {
			content = slot.Image.URL
		}
		b.WriteString(fmt.Sprintf("%s[%d] %s\n", marker, slot.Position+1, content))
	}

	hint := "←/→ слот · enter открыть · u загрузить в слот · c обложка · esc закрыть"
	if a.gateway.Uploading() {
		hint = "←/→ слот · enter открыть · esc закрыть"
	}
	b.WriteString("\n" + mutedStyle.Render(hint))
	return boxStyle.Render(b.String())
}

func (a *App) renderLightbox() string {
	url, ok := a.session.SelectedImage()
	if !ok {
		return a.renderProject()
	}
	return boxStyle.Render(url + "\n\n" + mutedStyle.Render("esc закрыть"))
}

func (a *App) renderPrompt() string {
	label := fmt.Sprintf("Фото для слота %d", a.target.position+1)
	if a.target.kind == portfolio.KindCover {
		label = "Новая обложка"
	}
	return boxStyle.Render(accentStyle.Render(label) + "\n\n" + a.pathInput.View() + "\n\n" +
		mutedStyle.Render("enter загрузить · esc отмена"))
}

func (a *App) renderStatus() string {
	switch {
	case a.gateway.Uploading():
		return a.spinner.View() + " " + uploadLabel(a.gateway.State())
	case a.store.Loading():
		return a.spinner.View() + " Загрузка проектов"
	}
	return ""
}

func uploadLabel(s portfolio.UploadState) string {
	switch s {
	case portfolio.StateReading:
		return "Чтение файла"
	case portfolio.StateUploading:
		return "Загрузка фото"
	case portfolio.StateAttaching:
		return "Сохранение"
	case portfolio.StateRefreshing:
		return "Обновление проектов"
	default:
		return s.String()
	}
}

func renderToast(n portfolio.Notification) string {
	style := successStyle
	if n.Level == portfolio.LevelError {
		style = errorStyle
	}
	return style.Render(n.Title) + " " + n.Description
}
