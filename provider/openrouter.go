package provider

import (
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "openai/gpt-3.5-turbo"
)

// NewOpenRouterProvider creates a provider for OpenRouter, which is 100%
// OpenAI-compatible; only the base URL, default model and attribution headers differ.
func NewOpenRouterProvider(cfg Config) (*OpenAIProvider, error) {
	return newOpenAICompatible(
		string(ProviderTypeOpenRouter),
		defaultOpenRouterBaseURL,
		defaultOpenRouterModel,
		cfg,
		option.WithHeader("HTTP-Referer", "https://github.com/chatwire/chatwire"),
		option.WithHeader("X-Title", "chatwire"),
	)
}
