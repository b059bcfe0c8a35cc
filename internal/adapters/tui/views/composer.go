package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/tui/styles"
	"mentions/internal/application/commands"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// ComposerKeyMap defines key bindings for the composer
type ComposerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Accept   key.Binding
	Dismiss  key.Binding
	Newline  key.Binding
	Copy     key.Binding
	Editor   key.Binding
	Obsidian key.Binding
	Browse   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var ComposerKeys = ComposerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "next page"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter", "tab"),
		key.WithHelp("enter/tab", "insert"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
	Newline: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "new line"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy text"),
	),
	Editor: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open in editor"),
	),
	Obsidian: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "open in Obsidian"),
	),
	Browse: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "browse"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

var errSpanOutsideBuffer = errors.New("range outside buffer")

// ComposerModel is a small line editor that offers mention completions as
// the user types. It is the text buffer suggestions are inserted into.
type ComposerModel struct {
	ViewState
	index    Index
	store    ports.DocumentStore
	settings CompletionSettings

	lines []string // committed lines above the input
	input textinput.Model

	trigger     domain.Trigger
	active      bool
	suggestions []domain.Suggestion
	pager       *Paginator
	dismissed   string // query closed with esc; stays closed until it changes
}

var _ ports.TextBuffer = (*ComposerModel)(nil)

// NewComposerModel creates a new composer
func NewComposerModel(index Index, store ports.DocumentStore, settings CompletionSettings) *ComposerModel {
	input := textinput.New()
	input.Placeholder = "Type, then @ to mention..."
	input.Prompt = ""
	input.Focus()

	if settings.PageSize <= 0 {
		settings.PageSize = 8
	}

	pager := NewPaginator(settings.PageSize)
	pager.Wrap = true

	return &ComposerModel{
		index:    index,
		store:    store,
		settings: settings,
		input:    input,
		pager:    pager,
	}
}

// Init initializes the composer
func (m *ComposerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the composer
func (m *ComposerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case InsertLinkMsg:
		m.InsertText(msg.Link.LinkText())
		return m, nil

	case IndexChangedMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		if m.active {
			if handled, cmd := m.handleSuggestionKey(msg); handled {
				return m, cmd
			}
		}

		switch {
		case key.Matches(msg, ComposerKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, ComposerKeys.Newline):
			m.lines = append(m.lines, m.input.Value())
			m.input.SetValue("")
			m.refresh()
			return m, nil

		case key.Matches(msg, ComposerKeys.Copy):
			if err := clipboard.WriteAll(m.Text()); err != nil {
				m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			} else {
				m.SetMessage(fmt.Sprintf("Copied %d lines", len(m.lines)+1), false)
			}
			return m, nil

		case key.Matches(msg, ComposerKeys.Browse):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, ComposerKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }

		case key.Matches(msg, ComposerKeys.Dismiss):
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

// handleSuggestionKey handles keys while the suggestion list is open
func (m *ComposerModel) handleSuggestionKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, ComposerKeys.Up):
		m.pager.Move(-1)
		return true, nil

	case key.Matches(msg, ComposerKeys.Down):
		m.pager.Move(1)
		return true, nil

	case key.Matches(msg, ComposerKeys.PrevPage):
		m.pager.PrevPage()
		return true, nil

	case key.Matches(msg, ComposerKeys.NextPage):
		m.pager.NextPage()
		return true, nil

	case key.Matches(msg, ComposerKeys.Accept):
		m.accept()
		return true, nil

	case key.Matches(msg, ComposerKeys.Dismiss):
		m.dismissed = m.trigger.Query
		m.close()
		return true, nil

	case key.Matches(msg, ComposerKeys.Editor), key.Matches(msg, ComposerKeys.Obsidian):
		s, ok := m.Selected()
		if !ok || s.Type != domain.SuggestionLink {
			return true, nil
		}
		path := s.Link.Path
		if key.Matches(msg, ComposerKeys.Editor) {
			return true, func() tea.Msg { return OpenEditorMsg{Path: path} }
		}
		return true, func() tea.Msg { return OpenObsidianMsg{Path: path} }
	}

	return false, nil
}

// accept applies the highlighted suggestion. It runs inside Update because
// the composer itself is the buffer being edited.
func (m *ComposerModel) accept() {
	s, ok := m.Selected()
	if !ok {
		return
	}

	cmd := commands.NewSelectCommand(m.store, m, m.index, s, m.trigger)
	result, err := cmd.Execute(context.Background())
	if err != nil && result == nil {
		m.SetMessage(err.Error(), true)
		return
	}

	m.close()
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.SetMessage(result.Message, false)
}

// refresh re-evaluates the trigger at the cursor and reloads suggestions
func (m *ComposerModel) refresh() {
	types := m.index.Types()
	trigger, ok := domain.FindTrigger(m.input.Value(),
		domain.Position{Line: len(m.lines), Ch: m.input.Position()},
		domain.TriggerSettings{
			Signs:          types.Signs(),
			MaxMatchLength: m.settings.MaxMatchLength,
			StopCharacters: m.settings.StopCharacters,
		})
	if !ok {
		m.dismissed = ""
		m.close()
		return
	}
	if trigger.Query == m.dismissed {
		m.close()
		return
	}
	m.dismissed = ""

	suggestions, err := commands.NewSuggestCommand(m.index, types, trigger.Query, m.settings.MatchStart).
		Execute(context.Background())
	if err != nil {
		m.close()
		return
	}

	if trigger.Query != m.trigger.Query || !m.active {
		m.pager.Reset()
	}
	m.trigger = trigger
	m.suggestions = suggestions
	m.active = len(suggestions) > 0
	m.pager.SetTotal(len(suggestions))
}

func (m *ComposerModel) close() {
	m.active = false
	m.suggestions = nil
	m.pager.Reset()
}

// ReplaceRange replaces [start, end) with text. Both positions must lie on
// the same line; columns count runes.
func (m *ComposerModel) ReplaceRange(text string, start, end domain.Position) error {
	if start.Line != end.Line || start.Ch > end.Ch || start.Ch < 0 {
		return fmt.Errorf("%w: %v-%v", errSpanOutsideBuffer, start, end)
	}

	var line string
	switch {
	case start.Line == len(m.lines):
		line = m.input.Value()
	case start.Line >= 0 && start.Line < len(m.lines):
		line = m.lines[start.Line]
	default:
		return fmt.Errorf("%w: line %d", errSpanOutsideBuffer, start.Line)
	}

	runes := []rune(line)
	if end.Ch > len(runes) {
		return fmt.Errorf("%w: column %d", errSpanOutsideBuffer, end.Ch)
	}

	replaced := string(runes[:start.Ch]) + text + string(runes[end.Ch:])
	if start.Line < len(m.lines) {
		m.lines[start.Line] = replaced
		return nil
	}

	m.input.SetValue(replaced)
	m.input.SetCursor(start.Ch + len([]rune(text)))
	return nil
}

// InsertText inserts text at the cursor
func (m *ComposerModel) InsertText(text string) {
	cursor := domain.Position{Line: len(m.lines), Ch: m.input.Position()}
	if err := m.ReplaceRange(text, cursor, cursor); err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.refresh()
}

// Text returns the whole buffer
func (m *ComposerModel) Text() string {
	return strings.Join(append(append([]string{}, m.lines...), m.input.Value()), "\n")
}

// Active reports whether the suggestion list is open
func (m *ComposerModel) Active() bool {
	return m.active
}

// Suggestions returns the open suggestion list
func (m *ComposerModel) Suggestions() []domain.Suggestion {
	return m.suggestions
}

// Selected returns the highlighted suggestion
func (m *ComposerModel) Selected() (domain.Suggestion, bool) {
	if !m.active {
		return domain.Suggestion{}, false
	}
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.suggestions) {
		return domain.Suggestion{}, false
	}
	return m.suggestions[i], true
}

// View renders the composer
func (m *ComposerModel) View() string {
	v := NewViewBuilder().Width(m.Width).
		Title("Mentions").
		Subtitle(m.store.VaultPath())

	for i, line := range m.lines {
		v.Line(styles.Gutter.Render(fmt.Sprintf("%3d ", i+1)) + line)
	}
	v.Line(styles.Gutter.Render(fmt.Sprintf("%3d ", len(m.lines)+1)) + m.input.View())

	if m.active {
		v.Line(styles.Popup.Render(m.renderSuggestions()))
	}

	v.BlankLine().Message(m.Message, m.MessageErr)

	if m.active {
		return v.Help(ComposerKeys.Accept, ComposerKeys.Up, ComposerKeys.Down, ComposerKeys.Editor, ComposerKeys.Dismiss).String()
	}
	return v.Help(ComposerKeys.Newline, ComposerKeys.Copy, ComposerKeys.Browse, ComposerKeys.Help, ComposerKeys.Quit).String()
}

func (m *ComposerModel) renderSuggestions() string {
	var b strings.Builder

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		s := m.suggestions[i]
		text := s.Render()

		switch {
		case i == m.pager.Cursor():
			b.WriteString(styles.RowSelected.Render(text))
		case s.Type == domain.SuggestionCreate:
			b.WriteString(styles.RowCreate.Render(text))
		case s.Link.Kind == domain.LinkKindAlias:
			b.WriteString(highlightMatch(text, m.trigger.Name, styles.RowAlias.Render))
		default:
			b.WriteString(highlightMatch(text, m.trigger.Name, styles.Row.Render))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if m.pager.TotalPages() > 1 {
		b.WriteString("\n")
		b.WriteString(RenderMuted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages())))
	}

	return b.String()
}
