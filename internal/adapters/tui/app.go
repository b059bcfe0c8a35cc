package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/tui/views"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewComposer ViewState = iota
	ViewBrowser
	ViewCreate
	ViewRename
	ViewDelete
	ViewHelp
)

// Service is the mention index the app edits against. Document events are
// applied through it from the update loop.
type Service interface {
	views.Index
	HandleEvent(ctx context.Context, event domain.DocumentEvent) error
}

// App is the main TUI application model
type App struct {
	svc      Service
	store    ports.DocumentStore
	editor   ports.EditorOpener
	obsidian ports.ObsidianOpener
	events   <-chan domain.DocumentEvent
	logger   *slog.Logger

	state    ViewState
	composer *views.ComposerModel
	browser  *views.BrowserModel
	create   *views.CreateModel
	rename   *views.RenameModel
	remove   *views.DeleteModel
	help     *views.HelpModel

	width  int
	height int
}

// Option configures an App
type Option func(*App)

// WithEditor enables opening notes in an external editor
func WithEditor(editor ports.EditorOpener) Option {
	return func(a *App) { a.editor = editor }
}

// WithObsidian enables opening notes in Obsidian
func WithObsidian(obsidian ports.ObsidianOpener) Option {
	return func(a *App) { a.obsidian = obsidian }
}

// WithEvents feeds document changes into the app
func WithEvents(feed ports.DocumentFeed) Option {
	return func(a *App) { a.events = feed.Events() }
}

// WithLogger sets the logger for failed document events
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// NewApp creates a new TUI application
func NewApp(svc Service, store ports.DocumentStore, settings views.CompletionSettings, opts ...Option) *App {
	a := &App{
		svc:      svc,
		store:    store,
		logger:   slog.Default(),
		state:    ViewComposer,
		composer: views.NewComposerModel(svc, store, settings),
		browser:  views.NewBrowserModel(svc, settings.PageSize),
		create:   views.NewCreateModel(svc, store),
		rename:   views.NewRenameModel(svc, store),
		remove:   views.NewDeleteModel(svc, store),
		help:     views.NewHelpModel(svc),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.composer.Init(), a.browser.Init(), a.waitForEvent())
}

type documentEventMsg struct {
	event domain.DocumentEvent
}

// waitForEvent reads the next document event, if a feed is attached
func (a *App) waitForEvent() tea.Cmd {
	if a.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-a.events
		if !ok {
			return nil
		}
		return documentEventMsg{event}
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.composer.SetSize(msg.Width, msg.Height)
		a.browser.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		a.rename.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case documentEventMsg:
		if err := a.svc.HandleEvent(context.Background(), msg.event); err != nil {
			a.logger.Warn("document event failed",
				slog.String("kind", msg.event.Kind.String()),
				slog.String("path", msg.event.Path),
				slog.Any("error", err))
		}
		changed := views.IndexChangedMsg{Event: msg.event}
		a.composer.Update(changed)
		a.browser.Update(changed)
		return a, a.waitForEvent()

	// View switching messages
	case views.SwitchToComposerMsg:
		a.state = ViewComposer
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		a.browser.Reload()
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.Prepare(msg.Sign, msg.Name)
		return a, a.create.Init()

	case views.SwitchToRenameMsg:
		a.state = ViewRename
		a.rename.SetTarget(msg.Link)
		return a, a.rename.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.remove.SetTarget(msg.Link)
		return a, nil

	case views.InsertLinkMsg:
		a.state = ViewComposer
		a.composer.Update(msg)
		return a, nil

	// Results of the create, rename and delete views
	case views.CreateSuccessMsg:
		return a, a.backToBrowser(msg.Result.Message)

	case views.RenameSuccessMsg:
		return a, a.backToBrowser(msg.Result.Message)

	case views.DeleteSuccessMsg:
		return a, a.backToBrowser(msg.Result.Message)

	case views.ActionErrMsg:
		a.currentState().SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case views.OpenObsidianMsg:
		return a, a.openObsidian(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.currentState().SetMessage(msg.err.Error(), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewComposer:
		_, cmd = a.composer.Update(msg)
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	case ViewRename:
		_, cmd = a.rename.Update(msg)
	case ViewDelete:
		_, cmd = a.remove.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) backToBrowser(message string) tea.Cmd {
	a.state = ViewBrowser
	a.browser.Reload()
	a.browser.SetMessage(message, false)
	a.composer.Update(views.IndexChangedMsg{})
	return nil
}

func (a *App) currentState() *views.ViewState {
	switch a.state {
	case ViewBrowser:
		return &a.browser.ViewState
	case ViewCreate:
		return &a.create.ViewState
	case ViewRename:
		return &a.rename.ViewState
	case ViewDelete:
		return &a.remove.ViewState
	case ViewHelp:
		return &a.help.ViewState
	default:
		return &a.composer.ViewState
	}
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: fmt.Errorf("no editor configured")}
		}
	}

	cmd, err := a.editor.Command(filepath.Join(a.store.VaultPath(), filepath.FromSlash(path)))
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (a *App) openObsidian(path string) tea.Cmd {
	if a.obsidian == nil {
		return nil
	}
	return func() tea.Msg {
		return editorFinishedMsg{err: a.obsidian.OpenFile(path)}
	}
}

// Text returns the composed text
func (a *App) Text() string {
	return a.composer.Text()
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewBrowser:
		return a.browser.View()
	case ViewCreate:
		return a.create.View()
	case ViewRename:
		return a.rename.View()
	case ViewDelete:
		return a.remove.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.composer.View()
	}
}
