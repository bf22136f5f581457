package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatwire/config"
	"chatwire/model"

	log "github.com/sirupsen/logrus"
)

// CheckResult describes whether the upstream provider can currently answer.
type CheckResult struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Ready    bool          `json:"ready"`
	Reason   string        `json:"reason,omitempty"`
	Latency  time.Duration `json:"latency_ns"`
}

// Check pings p and classifies the outcome. Reasons never include the raw
// upstream error text, so a CheckResult is safe to expose.
func Check(ctx context.Context, p model.Provider) CheckResult {
	if p == nil {
		return CheckResult{Reason: "no provider configured"}
	}

	result := CheckResult{
		Provider: p.Name(),
		Model:    p.GetModel(),
	}

	start := time.Now()
	err := p.Ping(ctx)
	result.Latency = time.Since(start)

	if err == nil {
		result.Ready = true
		return result
	}

	result.Reason = checkReason(err)
	log.WithFields(log.Fields{
		"component": "provider",
		"provider":  result.Provider,
	}).WithError(err).Debug("provider check failed")

	return result
}

func checkReason(err error) string {
	if errors.Is(err, config.ErrMissingCredential) {
		return "API key not configured"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "provider timed out"
	}
	if errors.Is(err, model.ErrModelNotAvailable) {
		return "model not available"
	}

	var pe *model.ProviderError
	if errors.As(err, &pe) {
		switch pe.Code {
		case model.CodeInvalidAPIKey:
			return "API key rejected"
		case model.CodeInsufficientQuota, model.CodeRateLimitExceeded:
			return "quota exceeded or rate limited"
		}
		return fmt.Sprintf("provider returned status %d", pe.StatusCode)
	}
	return "provider unreachable"
}
