package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"chatwire/config"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.kb

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("chatwire - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		fmt.Sprintf("• %-13s Send message", kb.DisplayActionKey(config.ActionSend)),
		fmt.Sprintf("• %-13s New line", "Alt+Enter"),
		fmt.Sprintf("• %-13s Clear conversation", kb.DisplayActionKey(config.ActionClearChat)),
		fmt.Sprintf("• %-13s Copy last reply", kb.DisplayActionKey(config.ActionCopyLastReply)),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey(config.ActionHelp)),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey(config.ActionQuit)),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Navigation"),
		fmt.Sprintf("• %-13s Half page up", kb.DisplayActionKey(config.ActionScrollUp)),
		fmt.Sprintf("• %-13s Half page down", kb.DisplayActionKey(config.ActionScrollDown)),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey(config.ActionScrollToBottom)),
		"• Mouse wheel   Scroll",
	)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(chatActions),
		columnStyle.Render(navigation),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey(config.ActionHelp)))

	sections := []string{title, "", twoColumns, ""}
	if a.version != "" {
		sections = append(sections, DimStyle.Render("Version "+a.version), "")
	}
	sections = append(sections, footer)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(lipgloss.JoinVertical(lipgloss.Center, sections...)),
	)
}
