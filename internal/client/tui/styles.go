package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and shared styles for the portal TUI.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Faint    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Badge    lipgloss.Style
	Pager    lipgloss.Style
	Help     lipgloss.Style
	Danger   lipgloss.Style
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
	Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
	Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
	Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
	Pager:    lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
	Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Danger:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
}
