package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chatwire/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// codeFromStatus is the fallback when an API reports no usable error code.
func codeFromStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.CodeInvalidAPIKey
	case http.StatusTooManyRequests:
		return model.CodeRateLimitExceeded
	case http.StatusRequestEntityTooLarge:
		return model.CodeContextLengthExceeded
	}
	return ""
}

// normalizeOpenAIError converts SDK errors from OpenAI-compatible APIs.
func normalizeOpenAIError(providerName string, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s request failed: %w", providerName, err)
	}

	code := apiErr.Code
	switch {
	case isKnownCode(code):
	case isKnownCode(apiErr.Type):
		// insufficient_quota is reported as the type on some accounts
		code = apiErr.Type
	default:
		if fallback := codeFromStatus(apiErr.StatusCode); fallback != "" {
			code = fallback
		}
	}

	return &model.ProviderError{
		Provider:   providerName,
		StatusCode: apiErr.StatusCode,
		Code:       code,
		Err:        err,
	}
}

// normalizeAnthropicError converts anthropic-sdk-go errors. Anthropic reports
// error types rather than codes, so the status and message decide.
func normalizeAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic request failed: %w", err)
	}

	msg := strings.ToLower(apiErr.Error())
	code := codeFromStatus(apiErr.StatusCode)
	switch {
	case strings.Contains(msg, "prompt is too long"):
		code = model.CodeContextLengthExceeded
	case strings.Contains(msg, "credit balance is too low"):
		code = model.CodeInsufficientQuota
	}

	return &model.ProviderError{
		Provider:   "anthropic",
		StatusCode: apiErr.StatusCode,
		Code:       code,
		Err:        err,
	}
}

// normalizeGeminiError converts genai errors, which carry an HTTP code and a
// gRPC-style status name.
func normalizeGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return fmt.Errorf("gemini request failed: %w", err)
		}
		apiErr = *apiErrPtr
	}

	msg := strings.ToLower(apiErr.Message)
	code := codeFromStatus(apiErr.Code)
	switch {
	case apiErr.Status == "UNAUTHENTICATED" || apiErr.Status == "PERMISSION_DENIED" ||
		strings.Contains(msg, "api key not valid"):
		code = model.CodeInvalidAPIKey
	case apiErr.Status == "RESOURCE_EXHAUSTED" || apiErr.Code == http.StatusTooManyRequests:
		code = model.CodeRateLimitExceeded
		if strings.Contains(msg, "quota") {
			code = model.CodeInsufficientQuota
		}
	case apiErr.Code == http.StatusBadRequest && strings.Contains(msg, "token") &&
		(strings.Contains(msg, "exceeds") || strings.Contains(msg, "too long")):
		code = model.CodeContextLengthExceeded
	}

	return &model.ProviderError{
		Provider:   "gemini",
		StatusCode: apiErr.Code,
		Code:       code,
		Err:        err,
	}
}

// normalizeOllamaError converts Ollama API status errors.
func normalizeOllamaError(err error) error {
	var statusErr api.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("ollama request failed: %w", err)
	}

	code := codeFromStatus(statusErr.StatusCode)
	if strings.Contains(strings.ToLower(statusErr.ErrorMessage), "context length") {
		code = model.CodeContextLengthExceeded
	}

	return &model.ProviderError{
		Provider:   "ollama",
		StatusCode: statusErr.StatusCode,
		Code:       code,
		Err:        err,
	}
}

func isKnownCode(code string) bool {
	switch code {
	case model.CodeInvalidAPIKey, model.CodeInsufficientQuota,
		model.CodeRateLimitExceeded, model.CodeContextLengthExceeded:
		return true
	}
	return false
}
