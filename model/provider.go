package model

import (
	"context"
	"errors"
	"fmt"
)

// Provider abstracts LLM provider implementations (OpenAI, Anthropic, Gemini, Ollama)
// using provider-agnostic types from the model layer.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the gateway can hold a
// Provider without importing the provider package.
type Provider interface {
	// Complete sends the assembled prompt and returns the whole reply.
	// A leading RoleSystem turn carries the system instruction.
	Complete(ctx context.Context, turns []Turn, params Params) (*Completion, error)

	// Name returns the provider ID ("openai", "anthropic", ...).
	Name() string

	// GetModel returns the currently selected model name.
	GetModel() string

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// Params are the fixed generation parameters of a deployment.
type Params struct {
	Temperature float64
	MaxTokens   int64
}

// Completion is the text of the first choice plus optional usage.
type Completion struct {
	Text  string
	Usage *Usage
}

// Normalized provider error codes. Every provider maps its own error shape onto these.
const (
	CodeInvalidAPIKey         = "invalid_api_key"
	CodeInsufficientQuota     = "insufficient_quota"
	CodeRateLimitExceeded     = "rate_limit_exceeded"
	CodeContextLengthExceeded = "context_length_exceeded"
)

// ErrNoReply is returned when a provider answers without any text.
var ErrNoReply = errors.New("provider returned no reply")

// ErrModelNotAvailable is returned by Ping when the provider is reachable but
// cannot serve the configured model.
var ErrModelNotAvailable = errors.New("model not available")

// ProviderError is a failure reported by the provider API itself.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string // One of the Code* constants, or the provider's raw code
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Code, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
