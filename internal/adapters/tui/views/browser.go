package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mentions/internal/adapters/tui/styles"
	"mentions/internal/application/commands"
	"mentions/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	NextType key.Binding
	Aliases  key.Binding
	Filter   key.Binding
	Insert   key.Binding
	Editor   key.Binding
	Obsidian key.Binding
	Copy     key.Binding
	New      key.Binding
	Rename   key.Binding
	Delete   key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	NextType: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next type"),
	),
	Aliases: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "aliases"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Insert: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "insert link"),
	),
	Editor: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Obsidian: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "obsidian"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy link"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel lists the mention documents of one type, or of all types
type BrowserModel struct {
	ViewState
	index     Index
	sign      string // "" lists every type
	aliases   bool
	filter    textinput.Model
	filtering bool
	links     []domain.Link
	pager     *Paginator
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(index Index, pageSize int) *BrowserModel {
	filter := textinput.New()
	filter.Placeholder = "Filter..."
	filter.Prompt = "/ "

	return &BrowserModel{
		index:  index,
		filter: filter,
		pager:  NewPaginator(pageSize),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	m.Reload()
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case IndexChangedMsg:
		m.Reload()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}

		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Back):
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.Reload()
				return m, nil
			}
			return m, func() tea.Msg { return SwitchToComposerMsg{} }

		case key.Matches(msg, BrowserKeys.Up):
			m.pager.Move(-1)
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.pager.Move(1)
			return m, nil

		case key.Matches(msg, BrowserKeys.PrevPage):
			m.pager.PrevPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.NextPage):
			m.pager.NextPage()
			return m, nil

		case key.Matches(msg, BrowserKeys.NextType):
			m.sign = m.nextSign()
			m.pager.Reset()
			m.Reload()
			return m, nil

		case key.Matches(msg, BrowserKeys.Aliases):
			m.aliases = !m.aliases
			m.Reload()
			return m, nil

		case key.Matches(msg, BrowserKeys.Filter):
			m.filtering = true
			return m, m.filter.Focus()

		case key.Matches(msg, BrowserKeys.New):
			sign, name := m.sign, strings.TrimSpace(m.filter.Value())
			return m, func() tea.Msg { return SwitchToCreateMsg{Sign: sign, Name: name} }

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}

		if link, ok := m.Selected(); ok {
			return m, m.linkAction(msg, link)
		}
	}

	return m, nil
}

// linkAction handles keys acting on the selected link
func (m *BrowserModel) linkAction(msg tea.KeyMsg, link domain.Link) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Insert):
		return func() tea.Msg { return InsertLinkMsg{Link: link} }

	case key.Matches(msg, BrowserKeys.Editor):
		return func() tea.Msg { return OpenEditorMsg{Path: link.Path} }

	case key.Matches(msg, BrowserKeys.Obsidian):
		return func() tea.Msg { return OpenObsidianMsg{Path: link.Path} }

	case key.Matches(msg, BrowserKeys.Copy):
		if err := clipboard.WriteAll(link.LinkText()); err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
		} else {
			m.SetMessage("Copied "+link.LinkText(), false)
		}
		return nil

	case key.Matches(msg, BrowserKeys.Rename):
		return func() tea.Msg { return SwitchToRenameMsg{Link: link} }

	case key.Matches(msg, BrowserKeys.Delete):
		return func() tea.Msg { return SwitchToDeleteMsg{Link: link} }
	}
	return nil
}

func (m *BrowserModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.Reload()
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.pager.Reset()
	m.Reload()
	return cmd
}

// nextSign cycles "" -> first sign -> ... -> last sign -> ""
func (m *BrowserModel) nextSign() string {
	signs := m.index.Types().Signs()
	if m.sign == "" {
		if len(signs) == 0 {
			return ""
		}
		return signs[0]
	}
	for i, sign := range signs {
		if sign == m.sign && i+1 < len(signs) {
			return signs[i+1]
		}
	}
	return ""
}

// Reload rebuilds the list from the index
func (m *BrowserModel) Reload() {
	types := m.index.Types()
	if _, ok := types[m.sign]; !ok {
		m.sign = ""
	}

	name := strings.TrimSpace(m.filter.Value())
	var links []domain.Link

	if name == "" {
		cmd := commands.NewListMentionsCommand(m.index, types, m.sign)
		cmd.WithAliases = m.aliases
		found, err := cmd.Execute(context.Background())
		if err != nil {
			m.SetMessage(err.Error(), true)
		}
		links = found
	} else {
		signs := types.Signs()
		if m.sign != "" {
			signs = []string{m.sign}
		}
		for _, sign := range signs {
			cmd := commands.NewLookupCommand(m.index, types, sign, name)
			cmd.Contains = true
			found, err := cmd.Execute(context.Background())
			if err != nil {
				m.SetMessage(err.Error(), true)
				continue
			}
			for _, link := range found {
				if link.Kind == domain.LinkKindAlias && !m.aliases {
					continue
				}
				links = append(links, link)
			}
		}
		commands.SortLinks(links)
	}

	m.links = links
	m.pager.SetTotal(len(links))
}

// Links returns the listed links
func (m *BrowserModel) Links() []domain.Link {
	return m.links
}

// Selected returns the link under the cursor
func (m *BrowserModel) Selected() (domain.Link, bool) {
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.links) {
		return domain.Link{}, false
	}
	return m.links[i], true
}

// Sign returns the type being listed, "" for all
func (m *BrowserModel) Sign() string {
	return m.sign
}

// View renders the browser
func (m *BrowserModel) View() string {
	v := NewViewBuilder().Width(m.Width).Title("Mentions")

	v.Line(m.renderTabs()).BlankLine()

	if m.filtering || m.filter.Value() != "" {
		v.Line(m.filter.View()).BlankLine()
	}

	if len(m.links) == 0 {
		v.Muted("No mentions.")
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderLink(m.links[i], i == m.pager.Cursor()))
	}

	if m.pager.TotalPages() > 1 {
		v.BlankLine().Muted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages()))
	}

	v.BlankLine().Message(m.Message, m.MessageErr)

	return v.Help(
		BrowserKeys.Insert, BrowserKeys.NextType, BrowserKeys.Filter, BrowserKeys.Editor,
		BrowserKeys.New, BrowserKeys.Rename, BrowserKeys.Delete, BrowserKeys.Back,
	).String()
}

func (m *BrowserModel) renderTabs() string {
	tab := func(label string, active bool, color lipgloss.Color) string {
		if active {
			return styles.TabActive.Background(color).Render(label)
		}
		return styles.Tab.Render(label)
	}

	parts := []string{tab("All", m.sign == "", styles.Primary)}
	for i, t := range sortedTypes(m.index) {
		parts = append(parts, tab(t.Sign+" "+t.DisplayLabel(), t.Sign == m.sign, styles.SignColor(i)))
	}

	aliases := "aliases off"
	if m.aliases {
		aliases = "aliases on"
	}
	return strings.Join(parts, " ") + "  " + RenderMuted(aliases)
}

func (m *BrowserModel) renderLink(link domain.Link, selected bool) string {
	text := link.Sign + link.DisplayText()
	if selected {
		return styles.RowSelected.Render(text) + " " + styles.RowPath.Render(link.Path)
	}

	base := styles.Row.Render
	if link.Kind == domain.LinkKindAlias {
		base = styles.RowAlias.Render
	}
	return highlightMatch(text, strings.TrimSpace(m.filter.Value()), base) + " " + styles.RowPath.Render(link.Path)
}
