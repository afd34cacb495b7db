package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	connectedDot = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	offlineDot   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	statusLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)

// renderStatusBar renders the daemon connection status bar.
func renderStatusBar(connected bool, width int) string {
	var status string
	if connected {
		status = connectedDot + " daemon connected"
	} else {
		status = offlineDot + " daemon not running"
	}
	return statusBarStyle.Width(width).Render(status)
}

// renderStatusLine renders the transient action feedback line.
func renderStatusLine(text string, width int) string {
	return statusLineStyle.Width(width).Render(text)
}

// renderHelpBar renders the bottom keybinding bar.
func renderHelpBar(width int) string {
	help := "enter/s: show  c: close  r: refresh  q/ctrl-c: quit"
	return helpBarStyle.Width(width).Render(help)
}
