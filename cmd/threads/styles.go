package main

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#1d9bf0")
	colorMuted  = lipgloss.Color("#8b98a5")
	colorDanger = lipgloss.Color("#f4212e")
	colorOK     = lipgloss.Color("#00ba7c")
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	idStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	overStyle  = lipgloss.NewStyle().Foreground(colorDanger)
	okStyle    = lipgloss.NewStyle().Foreground(colorOK)

	// tweetStyle boxes a post roughly at the width it has on a phone.
	tweetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(64)
)
