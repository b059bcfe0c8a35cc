package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Sign colors, assigned in sign order
	signPalette = []lipgloss.Color{
		lipgloss.Color("#6366F1"), // Indigo
		lipgloss.Color("#EC4899"), // Pink
		lipgloss.Color("#F97316"), // Orange
		lipgloss.Color("#60A5FA"), // Blue
	}
)

func text(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func strong(c lipgloss.Color) lipgloss.Style {
	return text(c).Bold(true)
}

func highlighted(bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(bg).Foreground(White).Bold(true)
}

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

var (
	App      = lipgloss.NewStyle().Padding(1, 2)
	Title    = strong(Primary).MarginBottom(1)
	Subtitle = text(Muted).Italic(true)

	// Composer
	Gutter = text(Muted)
	Popup  = boxed(Primary)

	// Suggestion and list rows
	Row         = lipgloss.NewStyle()
	RowSelected = highlighted(Primary)
	RowAlias    = text(Muted).Italic(true)
	RowCreate   = text(Secondary).Italic(true)
	RowPath     = text(Muted)

	// Browser tabs; the active tab takes its sign's color as background
	Tab       = text(Muted).Padding(0, 1)
	TabActive = highlighted(Primary).Padding(0, 1)

	// Forms
	InputLabel   = strong(Secondary)
	InputField   = boxed(Primary)
	InputFocused = boxed(Secondary)

	// Key help
	HelpKey       = strong(Primary)
	HelpDesc      = text(Muted)
	HelpSeparator = text(Muted).SetString(" • ")

	// Status line
	Success  = strong(Secondary)
	ErrorMsg = strong(Error)

	// Query match inside a suggestion
	Match = lipgloss.NewStyle().Background(Warning).Foreground(Black)

	MutedText = text(Muted)
)

// SignColor returns the color for the i-th configured sign
func SignColor(i int) lipgloss.Color {
	if i < 0 {
		return Primary
	}
	return signPalette[i%len(signPalette)]
}
