package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Work is teal, breaks are sand, anything over budget is green.
var (
	colorPrimary   = lipgloss.Color("#3FA7A3")
	colorSecondary = lipgloss.Color("#D8B46A")
	colorAccent    = lipgloss.Color("#E07A5F")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#81B29A")
	colorWarning   = lipgloss.Color("#F2CC8F")
	colorError     = lipgloss.Color("#D1495B")
	colorFg        = lipgloss.Color("#E5E7EB")
	colorSubtle    = lipgloss.Color("#374151")
	colorHighlight = lipgloss.Color("#8ECAE6")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

func bigClock(c lipgloss.Color) lipgloss.Style {
	return fg(c).Bold(true).Align(lipgloss.Center)
}

var (
	activeTabStyle = fg(colorPrimary).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = boxed(colorSubtle)
	activePanelStyle = boxed(colorPrimary)

	clockStyle        = bigClock(colorMuted)
	clockRunningStyle = bigClock(colorPrimary)
	clockEndedStyle   = bigClock(colorWarning)

	titleStyle     = fg(colorFg).Bold(true)
	subtitleStyle  = fg(colorMuted).Italic(true)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError).Bold(true)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)
	breakItemStyle    = fg(colorSecondary).Italic(true)
)
