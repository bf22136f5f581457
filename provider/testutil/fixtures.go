package testutil

import (
	"fmt"

	"chatwire/model"
)

// TestTurns returns a sample prompt: system instruction plus a short exchange
func TestTurns() []model.Turn {
	return []model.Turn{
		{Role: model.RoleSystem, Text: "You are a helpful assistant."},
		{Role: model.RoleUser, Text: "Hello, how are you?"},
		{Role: model.RoleAssistant, Text: "I'm doing well, thank you!"},
		{Role: model.RoleUser, Text: "Can you help me with a task?"},
	}
}

// SingleUserTurn returns a single user turn for simple tests
func SingleUserTurn(text string) []model.Turn {
	return []model.Turn{
		{Role: model.RoleUser, Text: text},
	}
}

// AlternatingHistory returns n history turns, user first, texts "turn 0".."turn n-1"
func AlternatingHistory(n int) []model.Turn {
	turns := make([]model.Turn, n)
	for i := range turns {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		turns[i] = model.Turn{Role: role, Text: fmt.Sprintf("turn %d", i)}
	}
	return turns
}

// ProviderError builds a normalized provider failure with the given code
func ProviderError(code string, status int) *model.ProviderError {
	return &model.ProviderError{
		Provider:   "mock",
		StatusCode: status,
		Code:       code,
		Err:        fmt.Errorf("upstream said %s", code),
	}
}
