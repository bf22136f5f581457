package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"chatwire/config"
	"chatwire/model"
	"chatwire/provider/testutil"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantReady  bool
		wantReason string
	}{
		{"reachable", nil, true, ""},
		{"missing key", fmt.Errorf("openai: %w", config.ErrMissingCredential), false, "API key not configured"},
		{"rejected key", testutil.ProviderError(model.CodeInvalidAPIKey, 401), false, "API key rejected"},
		{"quota", testutil.ProviderError(model.CodeInsufficientQuota, 429), false, "quota exceeded or rate limited"},
		{"other status", testutil.ProviderError("server_error", 503), false, "provider returned status 503"},
		{"timeout", context.DeadlineExceeded, false, "provider timed out"},
		{"model missing", fmt.Errorf("ollama: %w", model.ErrModelNotAvailable), false, "model not available"},
		{"transport", errors.New("dial tcp: connection refused"), false, "provider unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockProvider("test-model")
			mock.PingFunc = func(ctx context.Context) error { return tt.pingErr }

			result := Check(context.Background(), mock)
			if result.Ready != tt.wantReady {
				t.Errorf("Ready = %v, want %v", result.Ready, tt.wantReady)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if result.Provider != "mock" || result.Model != "test-model" {
				t.Errorf("identity = %s/%s, want mock/test-model", result.Provider, result.Model)
			}
			if tt.pingErr != nil && strings.Contains(result.Reason, "upstream said") {
				t.Errorf("Reason leaks upstream text: %q", result.Reason)
			}
		})
	}
}

func TestCheckNilProvider(t *testing.T) {
	if result := Check(context.Background(), nil); result.Ready {
		t.Error("Check(nil) reported ready")
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg := config.Default()
	cfg.Provider.Model = "gpt-4o-mini"

	p, creds, fileCreds, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if p.Name() != "openai" || p.GetModel() != "gpt-4o-mini" {
		t.Errorf("provider = %s/%s, want openai/gpt-4o-mini", p.Name(), p.GetModel())
	}
	if got := creds.APIKey(); got != "sk-from-env" {
		t.Errorf("APIKey() = %q, want sk-from-env", got)
	}
	if fileCreds != nil {
		t.Error("file credentials returned without a credentials file")
	}
}

func TestFromConfigUnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.Type = "mystery"

	if _, _, _, err := FromConfig(cfg); err == nil {
		t.Error("FromConfig() with unknown provider returned nil error")
	}
}
