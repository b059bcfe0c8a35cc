package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/tui/styles"
	"mentions/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel asks before an action on a mention note. Dropped holds
// the links the index loses when the action goes through.
type ConfirmationModel struct {
	ViewState
	Target  domain.Link
	Dropped []domain.Link
	Keys    ConfirmKeyMap
}

func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{Keys: DefaultConfirmKeys}
}

// SetTarget sets the note the confirmation acts on
func (m *ConfirmationModel) SetTarget(link domain.Link, dropped []domain.Link) {
	m.ClearMessage()
	m.Target = link
	m.Dropped = dropped
}

// HandleKeyMsg runs onConfirm or onCancel as a command for the matching key.
// handled is false for any other key.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (handled bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, onCancel
	case key.Matches(msg, m.Keys.Confirm):
		return true, onConfirm
	}
	return false, nil
}

// RenderPrompt renders question followed by the confirm and cancel keys
func (m *ConfirmationModel) RenderPrompt(question string) string {
	return question + "  " + RenderHelpLine(m.Keys.Confirm, m.Keys.Cancel)
}

// RenderTarget renders the note under action and the links it carries
func (m *ConfirmationModel) RenderTarget(action string) string {
	if m.Target.Path == "" {
		return ""
	}

	lines := []string{
		styles.InputLabel.Render(action + ":"),
		"  " + m.Target.Sign + m.Target.DisplayText(),
		"  " + styles.RowPath.Render(m.Target.Path),
	}

	if len(m.Dropped) > 0 {
		names := make([]string, 0, len(m.Dropped))
		for _, link := range m.Dropped {
			names = append(names, link.Sign+link.Name)
		}
		lines = append(lines, "",
			RenderMuted(fmt.Sprintf("Drops %d suggestion(s): %s", len(m.Dropped), strings.Join(names, ", "))))
	}

	return strings.Join(lines, "\n")
}
