package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	warningColor = lipgloss.Color("11")
	dangerColor  = lipgloss.Color("9")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	// NO .Background() = transparent!

	// Assistant message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// Failure placeholder style
	FailedStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// Status bar style
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Error banner above the input
	BannerStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	// Scroll-to-bottom affordance
	IndicatorStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	OnlineStyle = lipgloss.NewStyle().
			Foreground(successColor)

	OfflineStyle = lipgloss.NewStyle().
			Foreground(dangerColor)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in user green+bold.
// Usage: FormatFooter("Enter", "Send", "Alt+Q", "Quit")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
