package ui

import (
	"releasetracker/app/models"

	"github.com/charmbracelet/lipgloss"
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FF0000")).
	Bold(true)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#00FFFF")).
	Bold(true)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#888888"))

var labelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FFFFFF")).
	Bold(true).
	Width(14)

var focusedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FF79C6"))

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#626262")).
	Italic(true)

var statusColors = map[models.Status]lipgloss.Color{
	models.StatusPlanned: lipgloss.Color("#8BE9FD"),
	models.StatusOngoing: lipgloss.Color("#F1FA8C"),
	models.StatusDone:    lipgloss.Color("#50FA7B"),
}

func statusBadge(s models.Status) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(statusColors[s]).
		Padding(0, 1).
		Render(string(s))
}
