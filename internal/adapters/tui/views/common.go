package views

import (
	"mentions/internal/application/commands"
	"mentions/internal/domain"
	"mentions/internal/ports"
)

// Index is the live mention index the views query and notify
type Index interface {
	ports.LinkLookup
	ports.ChangeNotifier
	Types() domain.MentionTypes
	Links(path string) []domain.Link
}

// CompletionSettings controls when the composer opens suggestions and how
// names are matched
type CompletionSettings struct {
	MatchStart     bool
	MaxMatchLength int
	StopCharacters string
	PageSize       int
}

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// sortedTypes returns the configured mention types in sign order
func sortedTypes(index Index) []domain.MentionType {
	types := index.Types()
	out := make([]domain.MentionType, 0, len(types))
	for _, sign := range types.Signs() {
		out = append(out, types[sign])
	}
	return out
}

// Messages for view switching
type SwitchToComposerMsg struct{}

type SwitchToBrowserMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToCreateMsg struct {
	Sign string
	Name string
}

type SwitchToRenameMsg struct {
	Link domain.Link
}

type SwitchToDeleteMsg struct {
	Link domain.Link
}

// InsertLinkMsg asks the composer to insert a link at its cursor
type InsertLinkMsg struct {
	Link domain.Link
}

// OpenEditorMsg asks the app to open a vault-relative path in $EDITOR
type OpenEditorMsg struct {
	Path string
}

// OpenObsidianMsg asks the app to open a vault-relative path in Obsidian
type OpenObsidianMsg struct {
	Path string
}

// IndexChangedMsg tells the views the mention index was updated
type IndexChangedMsg struct {
	Event domain.DocumentEvent
}

// Results of the create, rename and delete views
type CreateSuccessMsg struct {
	Result *commands.CreateNoteResult
}

type RenameSuccessMsg struct {
	Result *commands.RenameResult
}

type DeleteSuccessMsg struct {
	Result *commands.DeleteResult
}

type ActionErrMsg struct {
	Err error
}
