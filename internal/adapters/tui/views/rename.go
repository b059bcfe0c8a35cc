package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/application"
	"mentions/internal/application/commands"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// RenameModel is the form that renames a mention note
type RenameModel struct {
	ViewState
	index  Index
	store  ports.DocumentStore
	target domain.Link
	form   *InputForm
}

// NewRenameModel creates a new rename view model
func NewRenameModel(index Index, store ports.DocumentStore) *RenameModel {
	name := NewInputField("New name", "", 120).WithCheck(func(value string) error {
		return application.ValidateMentionName("name", value)
	})

	return &RenameModel{
		index: index,
		store: store,
		form:  NewInputForm(name),
	}
}

// SetTarget sets the note to rename and prefills its current name
func (m *RenameModel) SetTarget(link domain.Link) {
	m.ClearMessage()
	m.target = link
	m.form.Reset()
	m.form.SetValue(0, strings.TrimPrefix(link.FileName, link.Sign))
}

// Init initializes the rename view
func (m *RenameModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the rename view
func (m *RenameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	return m, m.form.Update(msg)
}

func (m *RenameModel) submit() tea.Cmd {
	cmd := commands.NewRenameCommand(m.store, m.index, m.index.Types(), m.target.Path, m.form.Value(0))
	if err := cmd.Validate(); err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return RenameSuccessMsg{Result: result}
	}
}

// View renders the rename view
func (m *RenameModel) View() string {
	return NewViewBuilder().Width(m.Width).
		Title("Rename mention").
		Subtitle(m.target.Path).
		Line(m.form.RenderField(0)).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Line(m.form.RenderHelp("rename")).
		String()
}
