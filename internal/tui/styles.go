package tui

import "github.com/charmbracelet/lipgloss"

var (
	cyan      = lipgloss.Color("#5BA4A4")
	darkCyan  = lipgloss.Color("#2C3A3A")
	lightCyan = lipgloss.Color("#EEF6F6")
	grey      = lipgloss.Color("#7B8E8E")
)

type Styles struct {
	Title    lipgloss.Style
	Company  lipgloss.Style
	Position lipgloss.Style
	Meta     lipgloss.Style
	New      lipgloss.Style
	Featured lipgloss.Style
	Tag      lipgloss.Style
	TagFocus lipgloss.Style
	Chip     lipgloss.Style
	Card     lipgloss.Style
	Status   lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(cyan),
		Company:  lipgloss.NewStyle().Bold(true).Foreground(cyan),
		Position: lipgloss.NewStyle().Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(grey),
		New:      lipgloss.NewStyle().Bold(true).Foreground(lightCyan).Background(cyan).Padding(0, 1),
		Featured: lipgloss.NewStyle().Bold(true).Foreground(lightCyan).Background(darkCyan).Padding(0, 1),
		Tag:      lipgloss.NewStyle().Foreground(cyan).Background(lightCyan).Padding(0, 1),
		TagFocus: lipgloss.NewStyle().Foreground(lightCyan).Background(cyan).Padding(0, 1),
		Chip:     lipgloss.NewStyle().Foreground(lightCyan).Background(darkCyan).Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(grey).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Italic(true).Foreground(grey),
		Help:   lipgloss.NewStyle().Foreground(grey),
	}
}
