package gateway

import (
	"strings"

	"chatwire/model"
)

// BuildPrompt assembles the provider prompt: the system instruction (omitted
// when empty), the last window turns of history verbatim, then the trimmed new
// user message. A window <= 0 forwards no history.
func BuildPrompt(systemPrompt string, history []model.Turn, message string, window int) []model.Turn {
	if window < 0 {
		window = 0
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	prompt := make([]model.Turn, 0, len(history)+2)
	if systemPrompt != "" {
		prompt = append(prompt, model.Turn{Role: model.RoleSystem, Text: systemPrompt})
	}
	prompt = append(prompt, history...)
	prompt = append(prompt, model.Turn{Role: model.RoleUser, Text: strings.TrimSpace(message)})
	return prompt
}
