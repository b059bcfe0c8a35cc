package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"mentions/internal/adapters/tui/styles"
	"mentions/internal/application/commands"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	index Index
	store ports.DocumentStore
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(index Index, store ports.DocumentStore) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		index:             index,
		store:             store,
	}
}

// SetTarget sets the note to delete and collects the links it indexes
func (m *DeleteModel) SetTarget(link domain.Link) {
	m.ConfirmationModel.SetTarget(link, m.index.Links(link.Path))
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.Target.Path == "" {
		return ActionErrMsg{Err: fmt.Errorf("no target selected")}
	}

	result, err := commands.NewDeleteCommand(m.store, m.index, m.index.Types(), m.Target.Path).
		Execute(context.Background())
	if err != nil {
		return ActionErrMsg{Err: err}
	}
	return DeleteSuccessMsg{Result: result}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	return NewViewBuilder().Width(m.Width).
		Title("Delete Confirmation").
		Line(styles.ErrorMsg.Render("This action cannot be undone!")).
		BlankLine().
		Line(m.RenderTarget("Delete")).
		BlankLine().
		Muted("Links to this note in other documents are left in place.").
		BlankLine().
		Message(m.Message, m.MessageErr).
		Line(m.RenderPrompt("Are you sure?")).
		String()
}
