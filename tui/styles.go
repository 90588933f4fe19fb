package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(muted).
			Padding(0, 1)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	taglineStyle = lipgloss.NewStyle().Foreground(muted)
	compactStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	anchorStyle = lipgloss.NewStyle().Foreground(muted).Align(lipgloss.Center)

	assistantBubble = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
	userBubble = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Foreground(accent).
			Padding(0, 1)

	typingStyle = lipgloss.NewStyle().Foreground(muted).PaddingLeft(1)
	unreadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).PaddingLeft(1)
)
