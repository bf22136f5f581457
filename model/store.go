package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

const (
	// HistoryWindow is how many prior messages travel with each new turn.
	HistoryWindow = 10

	// DefaultCallTimeout bounds a single gateway call.
	DefaultCallTimeout = 30 * time.Second

	// LivenessWindow is how long a successful contact keeps the store "connected".
	LivenessWindow = 2 * time.Minute

	// ScrollThreshold is the distance from the end of the content that still counts as "at the bottom".
	ScrollThreshold = 100

	// FailurePlaceholder is appended instead of a reply when an exchange fails.
	FailurePlaceholder = "I'm having trouble connecting right now. Please try again."

	pingTimeout = 5 * time.Second
)

// ErrEmptyReply marks a 2xx gateway answer without reply text. Gateway
// clients return it, and Resolve records it for an empty ReplyMsg.
var ErrEmptyReply = errors.New("gateway returned an empty reply")

// Store holds the conversation and the client-side request state.
//
// Store is driven from a single goroutine (the Bubble Tea update loop). The
// commands it returns run elsewhere but only touch copies captured at submit time.
type Store struct {
	gateway Gateway

	messages []Message
	input    string

	busy      bool
	lastError string

	reachable   bool
	lastContact time.Time

	historyWindow int
	callTimeout   time.Duration
	now           func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithHistoryWindow overrides how many prior messages are forwarded.
func WithHistoryWindow(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithCallTimeout overrides the per-call timeout.
func WithCallTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithClock replaces time.Now, for liveness tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store talking to gw.
func NewStore(gw Gateway, opts ...StoreOption) *Store {
	s := &Store{
		gateway:       gw,
		historyWindow: HistoryWindow,
		callTimeout:   DefaultCallTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Messages returns a copy of the conversation in display order.
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the conversation.
func (s *Store) Len() int {
	return len(s.messages)
}

// Input returns the composing buffer.
func (s *Store) Input() string {
	return s.input
}

// SetInput replaces the composing buffer.
func (s *Store) SetInput(text string) {
	s.input = text
}

// Busy reports whether a request is in flight.
func (s *Store) Busy() bool {
	return s.busy
}

// LastError returns the message of the last failed exchange, or "" if the last
// submit has not failed.
func (s *Store) LastError() string {
	return s.lastError
}

// Connected reports whether the gateway answered the most recent exchange and
// that exchange happened within LivenessWindow.
func (s *Store) Connected() bool {
	if s.lastContact.IsZero() || !s.reachable {
		return false
	}
	return s.now().Sub(s.lastContact) <= LivenessWindow
}

// Submit appends text as a user message and returns the command that calls
// the gateway. Blank text, or a submit while another is in flight, is a no-op
// and returns nil.
//
// The returned command always yields exactly one ReplyMsg or ReplyFailedMsg,
// which must be handed back to Resolve.
func (s *Store) Submit(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || s.busy {
		return nil
	}

	req := GatewayRequest{
		NewMessage: trimmed,
		History:    s.historySnapshot(),
	}

	s.messages = append(s.messages, NewMessage(RoleUser, trimmed))
	s.input = ""
	s.busy = true
	s.lastError = ""

	gw := s.gateway
	timeout := s.callTimeout

	log.WithFields(log.Fields{
		"component": "store",
		"history":   len(req.History),
	}).Debug("submitting turn")

	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("component", "store").Errorf("gateway call panicked: %v", r)
				msg = ReplyFailedMsg{Err: fmt.Errorf("gateway call panicked: %v", r)}
			}
		}()

		if gw == nil {
			return ReplyFailedMsg{Err: fmt.Errorf("no gateway configured: %w", ErrGatewayUnreachable)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := gw.Complete(ctx, req)
		if err != nil {
			return ReplyFailedMsg{Err: err}
		}
		return ReplyMsg{Reply: reply.Reply, Usage: reply.Usage}
	}
}

// historySnapshot copies the trailing window of the log as role/text pairs.
func (s *Store) historySnapshot() []Turn {
	start := len(s.messages) - s.historyWindow
	if start < 0 {
		start = 0
	}
	history := make([]Turn, 0, len(s.messages)-start)
	for _, m := range s.messages[start:] {
		history = append(history, m.Turn())
	}
	return history
}

// Resolve applies the result of a command returned by Submit or Ping.
// It reports whether msg was one of the store's messages.
//
// Replies land even if Clear ran while the request was in flight.
func (s *Store) Resolve(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ReplyMsg:
		s.markContact(true)
		if strings.TrimSpace(msg.Reply) == "" {
			s.fail(ErrEmptyReply)
			return true
		}
		s.messages = append(s.messages, NewMessage(RoleAssistant, msg.Reply))
		s.busy = false

	case ReplyFailedMsg:
		err := msg.Err
		if err == nil {
			err = errors.New("unknown gateway failure")
		}
		s.markContact(!errors.Is(err, ErrGatewayUnreachable))
		s.fail(err)

	case PingResultMsg:
		if msg.Err != nil {
			log.WithField("component", "store").WithError(msg.Err).Debug("liveness probe failed")
		}
		s.markContact(msg.Err == nil)

	default:
		return false
	}
	return true
}

func (s *Store) fail(err error) {
	log.WithField("component", "store").WithError(err).Warn("turn failed")

	placeholder := NewMessage(RoleAssistant, FailurePlaceholder)
	placeholder.Failed = true
	s.messages = append(s.messages, placeholder)
	s.lastError = err.Error()
	s.busy = false
}

func (s *Store) markContact(reachable bool) {
	s.reachable = reachable
	s.lastContact = s.now()
}

// Clear empties the conversation. Busy state and the last error are kept.
func (s *Store) Clear() {
	s.messages = nil
}

// Ping returns a command probing the gateway; its PingResultMsg goes to Resolve.
func (s *Store) Ping() tea.Cmd {
	gw := s.gateway
	if gw == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		return PingResultMsg{Err: gw.Ping(ctx)}
	}
}

// ShowScrollToBottom reports whether the "scroll to bottom" affordance should
// be visible for a viewport scrolled to offset.
func ShowScrollToBottom(offset, viewportHeight, contentHeight int) bool {
	return contentHeight-(offset+viewportHeight) > ScrollThreshold
}
