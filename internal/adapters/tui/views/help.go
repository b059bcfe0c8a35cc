package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?", "f1"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	index Index
}

// NewHelpModel creates a new help view model
func NewHelpModel(index Index) *HelpModel {
	return &HelpModel{index: index}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToComposerMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view from the live key maps and mention types
func (m *HelpModel) View() string {
	var sections []string

	sections = append(sections, styles.Title.Render("Mentions Help"))

	sections = append(sections, helpSection("Composer",
		helpRow("sign+name", "type a sign then a name to get suggestions"),
		bindingRows(
			ComposerKeys.Up, ComposerKeys.Down, ComposerKeys.PrevPage, ComposerKeys.NextPage,
			ComposerKeys.Accept, ComposerKeys.Dismiss, ComposerKeys.Copy, ComposerKeys.Editor,
			ComposerKeys.Obsidian, ComposerKeys.Browse, ComposerKeys.Quit,
		),
	))

	sections = append(sections, helpSection("Browser", bindingRows(
		BrowserKeys.Up, BrowserKeys.Down, BrowserKeys.NextType, BrowserKeys.Filter,
		BrowserKeys.Aliases, BrowserKeys.Insert, BrowserKeys.Editor, BrowserKeys.Obsidian,
		BrowserKeys.Copy, BrowserKeys.New, BrowserKeys.Rename, BrowserKeys.Delete,
	)))

	var types []string
	for i, t := range sortedTypes(m.index) {
		folder := t.Folder
		if folder == "" {
			folder = "vault root"
		}
		sign := styles.HelpKey.Foreground(styles.SignColor(i)).Render(t.Sign)
		types = append(types, "  "+sign+" "+styles.HelpDesc.Render(t.DisplayLabel()+" in "+folder))
	}
	sections = append(sections, helpSection("Mention types", strings.Join(types, "\n")))

	sections = append(sections, RenderHelpLine(HelpKeys.Close))

	return styles.App.Render(strings.Join(sections, "\n\n"))
}

func helpSection(title string, rows ...string) string {
	return styles.InputLabel.Render(title) + "\n" + strings.Join(rows, "\n")
}

func bindingRows(bindings ...key.Binding) string {
	rows := make([]string, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, helpRow(b.Help().Key, b.Help().Desc))
	}
	return strings.Join(rows, "\n")
}

const helpKeyWidth = 18

func helpRow(keys, desc string) string {
	return "  " + styles.HelpKey.Width(helpKeyWidth).Render(keys) + styles.HelpDesc.Render(desc)
}
