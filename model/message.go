package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSystem only appears in assembled prompts, never in the conversation log.
	RoleSystem Role = "system"
)

// Valid reports whether r may appear in a conversation log.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message represents a chat message in the conversation
type Message struct {
	ID        string
	Role      Role
	Text      string // Trimmed before storage, never mutated afterwards
	CreatedAt time.Time
	Failed    bool // Placeholder appended in place of a reply
}

// NewMessage creates a message with a fresh ID and the text trimmed.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}
}

// Turn returns the role/text pair sent to the gateway as history.
func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Text: m.Text}
}

// Turn is one role-tagged entry of a prompt or of the history window.
type Turn struct {
	Role Role
	Text string
}

// Usage carries provider token accounting through to the client untouched.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}
