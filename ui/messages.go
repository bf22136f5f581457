package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// markdownRenderedMsg carries the rendered form of one assistant message.
type markdownRenderedMsg struct {
	MessageID string
	Width     int
	Rendered  string
}

// pingTickMsg schedules the next liveness probe.
type pingTickMsg time.Time

// noticeExpiredMsg clears a transient status notice.
type noticeExpiredMsg struct {
	seq int
}

func pingTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pingTickMsg(t)
	})
}
