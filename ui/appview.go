// Package ui is the terminal chat window. It renders the conversation held by
// a model.Store and turns key presses into store operations.
package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatwire/config"
	"chatwire/model"
)

// Rows outside the viewport: title, spacer, status line, textarea (3), footer.
const chromeHeight = 7

// Options configure the chat window.
type Options struct {
	KeyBindings  *config.KeyBindingsConfig
	GatewayURL   string
	PingInterval time.Duration
	Version      string
}

type AppView struct {
	store *model.Store
	kb    *config.KeyBindingsConfig

	gatewayURL   string
	pingInterval time.Duration
	version      string

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Rendered markdown per assistant message ID, valid for renderWidth
	rendered    map[string]string
	renderWidth int

	// Transient status line text (e.g. "Copied")
	notice    string
	noticeSeq int

	copyText func(string) error
}

func NewAppView(store *model.Store, opts Options) AppView {
	kb := opts.KeyBindings
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone sends (handled in handleKey)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		store:          store,
		kb:             kb,
		gatewayURL:     opts.GatewayURL,
		pingInterval:   opts.PingInterval,
		version:        opts.Version,
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		rendered:       make(map[string]string),
		copyText:       clipboard.WriteAll,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.store.Ping(),
		pingTick(a.pingInterval),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading chatwire..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	// Title bar - "chatwire - gateway URL | ● online"
	title := AssistantStyle.Render("chatwire") +
		TitleStyle.Render(fmt.Sprintf(" - %s", a.gatewayURL)) +
		DimStyle.Render(" | ") +
		a.connectivityIndicator()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.statusLine(),
		a.textarea.View(),
		a.footer(),
	)
}

func (a AppView) connectivityIndicator() string {
	if a.store.Connected() {
		return OnlineStyle.Render("● online")
	}
	return OfflineStyle.Render("○ offline")
}

// statusLine shows, in priority order: the last error, the scroll-to-bottom
// affordance, a transient notice.
func (a AppView) statusLine() string {
	if errMsg := a.store.LastError(); errMsg != "" {
		return BannerStyle.Render(truncate("⚠ "+errMsg, a.width))
	}
	if a.showScrollIndicator() {
		return IndicatorStyle.Render(fmt.Sprintf("↓ More below (%s)", a.kb.DisplayActionKey(config.ActionScrollToBottom)))
	}
	if a.notice != "" {
		return DimStyle.Render(a.notice)
	}
	return ""
}

func (a AppView) showScrollIndicator() bool {
	return model.ShowScrollToBottom(a.viewport.YOffset, a.viewport.Height, a.viewport.TotalLineCount())
}

func (a AppView) footer() string {
	return StatusStyle.Render(FormatFooter(
		a.kb.DisplayActionKey(config.ActionQuit), "Quit",
		"Enter", "Send",
		"Alt+Enter", "New Line",
		a.kb.DisplayActionKey(config.ActionClearChat), "Clear",
		a.kb.DisplayActionKey(config.ActionCopyLastReply), "Copy",
		a.kb.DisplayActionKey(config.ActionHelp), "Help",
	))
}

func (a *AppView) resize(width, height int) {
	a.width = width
	a.height = height

	viewportHeight := height - chromeHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	a.viewport.Width = width
	a.viewport.Height = viewportHeight
	a.textarea.SetWidth(width)
}
