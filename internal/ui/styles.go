package ui

import "github.com/charmbracelet/lipgloss"

// Палитра дашборда
var (
	colAccent  = lipgloss.Color("39")  // голубой
	colMuted   = lipgloss.Color("241") // серый
	colDanger  = lipgloss.Color("196")
	colSuccess = lipgloss.Color("76")
)

type styles struct {
	Title     lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Label     lipgloss.Style
	Selected  lipgloss.Style
	Required  lipgloss.Style
	Overlay   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colAccent),
		TabActive: lipgloss.NewStyle().Bold(true).Foreground(colAccent).Underline(true),
		Tab:       lipgloss.NewStyle().Foreground(colMuted),
		Status:    lipgloss.NewStyle().Foreground(colMuted),
		Error:     lipgloss.NewStyle().Foreground(colDanger),
		Muted:     lipgloss.NewStyle().Foreground(colMuted),
		Label:     lipgloss.NewStyle().Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(colSuccess),
		Required:  lipgloss.NewStyle().Foreground(colDanger),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colAccent).
			Padding(1, 2),
	}
}
