package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"mentions/internal/adapters/tui/styles"
)

// RenderHelpLine renders key bindings as "key desc" pairs separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, styles.HelpKey.Render(help.Key)+" "+styles.HelpDesc.Render(help.Desc))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a status message, red for errors
func RenderMessage(message string, isError bool) string {
	switch {
	case message == "":
		return ""
	case isError:
		return styles.ErrorMsg.Render(message)
	default:
		return styles.Success.Render(message)
	}
}

// RenderMuted renders secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// highlightMatch marks the first case-insensitive occurrence of term in text
func highlightMatch(text, term string, base func(...string) string) string {
	lower, lowerTerm := strings.ToLower(text), strings.ToLower(term)
	i := strings.Index(lower, lowerTerm)
	if term == "" || i < 0 || len(lower) != len(text) {
		return base(text)
	}
	end := i + len(lowerTerm)
	return base(text[:i]) + styles.Match.Render(text[i:end]) + base(text[end:])
}

// ViewBuilder stacks the rows of a view. Rows wider than the terminal are
// clipped once a width is known.
type ViewBuilder struct {
	rows  []string
	width int
}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Width clips the rendered view to w columns; 0 leaves it unclipped
func (v *ViewBuilder) Width(w int) *ViewBuilder {
	v.width = w
	return v
}

func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.Line(styles.Title.Render(title))
}

// Subtitle adds a subtitle followed by a blank row
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	return v.Line(styles.Subtitle.Render(subtitle)).BlankLine()
}

func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.rows = append(v.rows, text)
	return v
}

func (v *ViewBuilder) BlankLine() *ViewBuilder {
	return v.Line("")
}

func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(RenderMuted(text))
}

// Message adds a status message and a blank row, or nothing when empty
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	return v.Line(RenderMessage(message, isError)).BlankLine()
}

// Help adds the key help row
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	return v.Line(RenderHelpLine(bindings...))
}

// String renders the rows inside the app frame
func (v *ViewBuilder) String() string {
	frame := styles.App
	if v.width > 0 {
		frame = frame.MaxWidth(v.width)
	}
	return frame.Render(strings.Join(v.rows, "\n"))
}
