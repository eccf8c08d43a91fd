package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#89b4fa")
	colorMuted  = lipgloss.Color("#6c7086")
	colorError  = lipgloss.Color("#f38ba8")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	linkStyle      = lipgloss.NewStyle().Underline(true).Foreground(colorAccent)
	activeStyle    = lipgloss.NewStyle()
)
