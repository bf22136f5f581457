package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"chatwire/config"
	"chatwire/model"
)

const noticeDuration = 3 * time.Second

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.ready = true

		// Rendered markdown depends on width
		var cmds []tea.Cmd
		if a.renderWidth != a.width {
			a.renderWidth = a.width
			a.rendered = make(map[string]string)
			cmds = a.renderAssistantMessages()
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !a.store.Busy() {
			// Let the tick chain stop while idle
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.updateViewportContent(a.atBottom())
		return a, cmd

	case model.ReplyMsg, model.ReplyFailedMsg:
		a.store.Resolve(msg)
		a.updateViewportContent(true)
		return a, a.renderLatestReply()

	case model.PingResultMsg:
		a.store.Resolve(msg)
		return a, nil

	case pingTickMsg:
		return a, tea.Batch(a.store.Ping(), pingTick(a.pingInterval))

	case markdownRenderedMsg:
		// Drop renders for an old width or a cleared conversation
		if msg.Width != a.renderWidth || !a.hasMessage(msg.MessageID) {
			return a, nil
		}
		a.rendered[msg.MessageID] = msg.Rendered
		a.updateViewportContent(a.atBottom())
		return a, nil

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" || keyStr == a.kb.GetActionKey(config.ActionQuit) {
		return a, tea.Quit
	}

	if a.showHelp {
		if keyStr == "esc" || keyStr == a.kb.GetActionKey(config.ActionHelp) {
			a.showHelp = false
		}
		return a, nil
	}

	switch keyStr {
	case a.kb.GetActionKey(config.ActionHelp):
		a.showHelp = true
		return a, nil

	case a.kb.GetActionKey(config.ActionSend):
		return a.submit()

	case a.kb.GetActionKey(config.ActionClearChat):
		a.store.Clear()
		a.rendered = make(map[string]string)
		a.updateViewportContent(true)
		return a.setNotice("Conversation cleared")

	case a.kb.GetActionKey(config.ActionCopyLastReply):
		return a.copyLastReply()

	case a.kb.GetActionKey(config.ActionScrollUp), "pgup":
		a.viewport.HalfPageUp()
		return a, nil

	case a.kb.GetActionKey(config.ActionScrollDown), "pgdown":
		a.viewport.HalfPageDown()
		return a, nil

	case a.kb.GetActionKey(config.ActionScrollToBottom):
		a.viewport.GotoBottom()
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	a.store.SetInput(a.textarea.Value())
	return a, cmd
}

// submit hands the composed text to the store. A blank input or a submit while
// a reply is pending leaves the input untouched.
func (a AppView) submit() (tea.Model, tea.Cmd) {
	text := a.textarea.Value()
	a.store.SetInput(text)

	call := a.store.Submit(text)
	if call == nil {
		return a, nil
	}

	a.textarea.Reset()
	a.updateViewportContent(true)
	return a, tea.Batch(call, a.loadingSpinner.Tick)
}

func (a AppView) copyLastReply() (tea.Model, tea.Cmd) {
	messages := a.store.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role != model.RoleAssistant || m.Failed {
			continue
		}
		if err := a.copyText(m.Text); err != nil {
			log.WithField("component", "ui").WithError(err).Warn("clipboard write failed")
			return a.setNotice("Clipboard unavailable")
		}
		return a.setNotice("Copied last reply")
	}
	return a.setNotice("Nothing to copy yet")
}

func (a AppView) setNotice(text string) (tea.Model, tea.Cmd) {
	a.noticeSeq++
	a.notice = text
	seq := a.noticeSeq
	return a, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// renderLatestReply starts rendering the newest message if it is a real reply.
func (a AppView) renderLatestReply() tea.Cmd {
	messages := a.store.Messages()
	if len(messages) == 0 {
		return nil
	}
	last := messages[len(messages)-1]
	if last.Role != model.RoleAssistant || last.Failed {
		return nil
	}
	return a.renderMarkdownAsync(last.ID, last.Text)
}

// renderAssistantMessages renders every reply, newest first since the
// viewport shows the bottom.
func (a AppView) renderAssistantMessages() []tea.Cmd {
	messages := a.store.Messages()
	var cmds []tea.Cmd
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role == model.RoleAssistant && !m.Failed {
			cmds = append(cmds, a.renderMarkdownAsync(m.ID, m.Text))
		}
	}
	return cmds
}

func (a AppView) hasMessage(id string) bool {
	for _, m := range a.store.Messages() {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (a AppView) atBottom() bool {
	return a.viewport.AtBottom()
}
