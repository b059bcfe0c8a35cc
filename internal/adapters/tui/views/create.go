package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/application"
	"mentions/internal/application/commands"
	"mentions/internal/ports"
)

const (
	createFieldSign = iota
	createFieldName
)

// CreateModel is the form that creates a new mention note
type CreateModel struct {
	ViewState
	index Index
	store ports.DocumentStore
	form  *InputForm
}

// NewCreateModel creates a new create view model
func NewCreateModel(index Index, store ports.DocumentStore) *CreateModel {
	sign := NewInputField("Sign", "@", 1).WithCheck(func(value string) error {
		_, err := application.ValidateSign(value, index.Types())
		return err
	})
	name := NewInputField("Name", "John Smith", 120).WithCheck(func(value string) error {
		return application.ValidateMentionName("name", value)
	})

	return &CreateModel{
		index: index,
		store: store,
		form:  NewInputForm(sign, name),
	}
}

// Prepare resets the form for a new note of sign, prefilled with name
func (m *CreateModel) Prepare(sign, name string) {
	m.ClearMessage()
	m.form.Reset()

	if sign == "" {
		if signs := m.index.Types().Signs(); len(signs) > 0 {
			sign = signs[0]
		}
	}
	m.form.SetValue(createFieldSign, sign)
	m.form.SetValue(createFieldName, name)
	m.form.Focus(createFieldName)
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m *CreateModel) submit() tea.Cmd {
	if err := m.form.Err(); err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	mentionType, err := application.ValidateSign(m.form.Value(createFieldSign), m.index.Types())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	cmd := commands.NewCreateNoteCommand(m.store, m.index, mentionType, m.form.Value(createFieldName))
	if err := cmd.Validate(); err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}

	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return CreateSuccessMsg{Result: result}
	}
}

// View renders the create view
func (m *CreateModel) View() string {
	v := NewViewBuilder().Width(m.Width).
		Title("New mention").
		Subtitle(m.typeHint())

	v.Line(m.form.RenderField(createFieldSign)).
		Line(m.form.RenderField(createFieldName)).
		BlankLine().
		Message(m.Message, m.MessageErr)

	return v.Line(m.form.RenderHelp("create")).String()
}

// typeHint lists the configured types
func (m *CreateModel) typeHint() string {
	hint := ""
	for _, t := range sortedTypes(m.index) {
		if hint != "" {
			hint += ", "
		}
		hint += t.Sign + " " + t.DisplayLabel()
	}
	return hint
}
