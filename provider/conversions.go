package provider

import (
	"strings"

	"chatwire/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// splitSystem separates system turns from the conversation. APIs with a
// dedicated system slot (Anthropic, Gemini) take the joined text there.
func splitSystem(turns []model.Turn) (string, []model.Turn) {
	var system []string
	rest := make([]model.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == model.RoleSystem {
			if t.Text != "" {
				system = append(system, t.Text)
			}
			continue
		}
		rest = append(rest, t)
	}
	return strings.Join(system, "\n\n"), rest
}

// ConvertToOpenAIMessages maps turns role-for-role onto chat completion messages.
// OpenRouter uses the same shape.
func ConvertToOpenAIMessages(turns []model.Turn) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(t.Text))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(t.Text))
		default:
			result = append(result, openai.UserMessage(t.Text))
		}
	}
	return result
}

// convertToAnthropicMessages returns the message list plus the system blocks,
// which Anthropic takes as a separate request field.
func convertToAnthropicMessages(turns []model.Turn) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	system, rest := splitSystem(turns)

	messages := make([]anthropic.MessageParam, 0, len(rest))
	for _, t := range rest {
		block := anthropic.NewTextBlock(t.Text)
		if t.Role == model.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(block))
	}

	var systemBlocks []anthropic.TextBlockParam
	if system != "" {
		systemBlocks = []anthropic.TextBlockParam{{Text: system}}
	}
	return messages, systemBlocks
}

// convertToGeminiContents returns the contents plus the system instruction (nil if none).
// Gemini calls the assistant role "model".
func convertToGeminiContents(turns []model.Turn) ([]*genai.Content, *genai.Content) {
	system, rest := splitSystem(turns)

	contents := make([]*genai.Content, 0, len(rest))
	for _, t := range rest {
		role := genai.RoleUser
		if t.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(role)))
	}

	var instruction *genai.Content
	if system != "" {
		instruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return contents, instruction
}

// ConvertToOllamaMessages maps turns onto Ollama chat messages. Ollama accepts
// system messages inline.
func ConvertToOllamaMessages(turns []model.Turn) []api.Message {
	result := make([]api.Message, len(turns))
	for i, t := range turns {
		result[i] = api.Message{
			Role:    string(t.Role),
			Content: t.Text,
		}
	}
	return result
}

func usage(prompt, completion, total int64) *model.Usage {
	if prompt == 0 && completion == 0 && total == 0 {
		return nil
	}
	if total == 0 {
		total = prompt + completion
	}
	return &model.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
	}
}
