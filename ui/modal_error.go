package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorModal is a standalone program shown when the chat window cannot start,
// e.g. the settings file is invalid or the gateway URL is malformed.
type ErrorModal struct {
	title   string
	message string
	width   int
	height  int
}

func NewErrorModal(title string, err error) ErrorModal {
	return ErrorModal{
		title:   title,
		message: err.Error(),
	}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + ": " + m.message
	}

	modalWidth := min(60, m.width-10)

	section := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	bordered := section.
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor)

	title := section.Bold(true).Foreground(dangerColor).Render(m.title)
	body := bordered.Padding(1, 0).Render(wrapText(m.message, modalWidth))
	footer := bordered.Foreground(dimColor).Render("Press Enter to quit")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		strings.Join([]string{title, body, footer}, "\n"))
}
