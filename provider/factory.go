package provider

import (
	"fmt"

	"chatwire/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches to the provider constructor named by Config.Type and returns
// an error for unknown types or when the constructor fails (e.g., invalid URL).
//
// Example:
//
//	cfg := provider.Config{
//	    Type:        provider.ProviderTypeAnthropic,
//	    Model:       "claude-sonnet-4-5-20250929",
//	    Credentials: config.EnvCredentials{Var: "ANTHROPIC_API_KEY"},
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.HTTPClient)
	case ProviderTypeOpenRouter:
		return NewOpenRouterProvider(cfg)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderTypeGemini:
		return NewGeminiProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts config provider ID to factory ProviderType.
//
// For unknown IDs, returns the ID cast as ProviderType (factory will error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	case "gemini", "google":
		return ProviderTypeGemini
	default:
		return ProviderType(id)
	}
}
