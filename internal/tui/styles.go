package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")
	errorColor   = lipgloss.Color("#EF4444")
	successColor = lipgloss.Color("#10B981")
	warnColor    = lipgloss.Color("#F59E0B")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#D1D5DB")).
			Padding(0, 1)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	keepPillStyle = lipgloss.NewStyle().
			Foreground(successColor)

	trashPillStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	reviewPillStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	trashedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warnColor).
			Padding(1, 2)
)

// pill renders a decision action as a colored tag.
func pill(action string) string {
	switch action {
	case "keep":
		return keepPillStyle.Render("[keep]")
	case "trash":
		return trashPillStyle.Render("[trash]")
	default:
		return reviewPillStyle.Render("[review]")
	}
}
