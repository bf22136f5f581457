// Package provider implements model.Provider for the upstream LLM APIs the
// gateway can forward to.
//
// Every provider answers one assembled prompt with one complete reply. Replies
// are never streamed, the SDKs' automatic retries are switched off, and the API
// key is read from the configured credential source on every call, so a
// rotated key takes effect without a restart.
//
// # Supported providers
//
//   - openai: OpenAI chat completions (official openai-go SDK)
//   - openrouter: OpenRouter, through the same SDK with a different base URL
//   - anthropic: Anthropic messages API (official anthropic-sdk-go)
//   - gemini: Google Gemini API (google.golang.org/genai)
//   - ollama: local Ollama server, no key needed
//
// # Errors
//
// Failures reported by an upstream API come back as *model.ProviderError with
// Code normalized to one of the model.Code* constants when the failure is one
// the gateway distinguishes. Transport failures and context errors are returned
// wrapped but otherwise untouched.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:        provider.ProviderTypeOpenAI,
//	    Model:       "gpt-3.5-turbo",
//	    Credentials: config.EnvCredentials{Var: "OPENAI_API_KEY"},
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Complete(ctx, turns, model.Params{Temperature: 0.7, MaxTokens: 1000})
package provider

import (
	"net/http"

	"chatwire/config"
)

// Note: The Provider interface is defined in the model package (model/provider.go)
// to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeGemini     ProviderType = "gemini"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string

	// Credentials is consulted on every request. Unused for Ollama.
	Credentials config.CredentialSource

	// HTTPClient overrides the transport, mainly for tests. Optional.
	HTTPClient *http.Client
}

func apiKey(creds config.CredentialSource) string {
	if creds == nil {
		return ""
	}
	return creds.APIKey()
}
