package dashboard

import "github.com/charmbracelet/lipgloss"

// Palette of the panels
var (
	Success     lipgloss.TerminalColor = lipgloss.Color("#4CAF50")
	Destructive lipgloss.TerminalColor = lipgloss.Color("#F44336")
	Warning     lipgloss.TerminalColor = lipgloss.Color("#FDD835")
	Muted       lipgloss.TerminalColor = lipgloss.Color("244")
	Border      lipgloss.TerminalColor = lipgloss.Color("240")
	Primary     lipgloss.TerminalColor = lipgloss.Color("62")
	Historical  lipgloss.TerminalColor = lipgloss.Color("39")
	Forecast    lipgloss.TerminalColor = lipgloss.Color("213")
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Border).
			Padding(0, 1).
			Width(22)

	titleStyle       = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(Muted)
	successStyle     = lipgloss.NewStyle().Foreground(Success)
	destructiveStyle = lipgloss.NewStyle().Foreground(Destructive)
	warningStyle     = lipgloss.NewStyle().Foreground(Warning)
	primaryStyle     = lipgloss.NewStyle().Foreground(Primary)
)

// toneStyle maps a Stat tone to its style
func toneStyle(tone string) lipgloss.Style {
	switch tone {
	case "success":
		return successStyle
	case "destructive":
		return destructiveStyle
	default:
		return lipgloss.NewStyle()
	}
}

func changeStyle(up bool) lipgloss.Style {
	if up {
		return successStyle
	}
	return destructiveStyle
}
