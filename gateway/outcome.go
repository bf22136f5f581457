package gateway

import (
	"context"
	"errors"
	"net/http"

	"chatwire/config"
	"chatwire/model"
)

// Outcome classifies how one chat request ended.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeBadRequest         Outcome = "bad_request"
	OutcomeConfigurationError Outcome = "configuration_error"
	OutcomeUnauthorized       Outcome = "unauthorized"
	OutcomeQuotaExceeded      Outcome = "quota_exceeded"
	OutcomeContextTooLong     Outcome = "context_too_long"
	OutcomeNoReply            Outcome = "no_reply"
	OutcomeUnavailable        Outcome = "unavailable"
	// OutcomeRateLimited is produced by the HTTP rate limiter, never by Complete.
	OutcomeRateLimited Outcome = "rate_limited"
)

// Client-facing messages. Raw provider errors never reach the client.
const (
	MsgNoMessage          = "No message provided"
	MsgMessageTooLong     = "Message is too long"
	MsgInvalidBody        = "Invalid request body"
	MsgConfigurationError = "Server configuration error: API key not configured"
	MsgUnauthorized       = "Invalid API key"
	MsgQuotaExceeded      = "API quota exceeded or rate limited. Please try again later."
	MsgContextTooLong     = "Conversation is too long. Please clear the chat and try again."
	MsgNoReply            = "No reply was generated"
	MsgUnavailable        = "Something went wrong. Please try again."
	MsgRateLimited        = "Too many requests. Please slow down."
)

// StatusCode returns the HTTP status the outcome is reported with.
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeOK:
		return http.StatusOK
	case OutcomeBadRequest, OutcomeContextTooLong:
		return http.StatusBadRequest
	case OutcomeUnauthorized:
		return http.StatusUnauthorized
	case OutcomeQuotaExceeded, OutcomeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the fixed client message for o. BadRequest has none;
// its message depends on the input.
func (o Outcome) Message() string {
	switch o {
	case OutcomeConfigurationError:
		return MsgConfigurationError
	case OutcomeUnauthorized:
		return MsgUnauthorized
	case OutcomeQuotaExceeded:
		return MsgQuotaExceeded
	case OutcomeContextTooLong:
		return MsgContextTooLong
	case OutcomeNoReply:
		return MsgNoReply
	case OutcomeRateLimited:
		return MsgRateLimited
	case OutcomeUnavailable:
		return MsgUnavailable
	}
	return ""
}

// classify maps a provider failure onto the outcome taxonomy.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, config.ErrMissingCredential):
		return OutcomeConfigurationError
	case errors.Is(err, model.ErrNoReply):
		return OutcomeNoReply
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return OutcomeUnavailable
	}

	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		return OutcomeUnavailable
	}
	switch pe.Code {
	case model.CodeInvalidAPIKey:
		return OutcomeUnauthorized
	case model.CodeInsufficientQuota, model.CodeRateLimitExceeded:
		return OutcomeQuotaExceeded
	case model.CodeContextLengthExceeded:
		return OutcomeContextTooLong
	}
	return OutcomeUnavailable
}
