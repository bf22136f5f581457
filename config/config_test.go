package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("settings file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("settings permissions = %o, want 600", perm)
	}

	if cfg.Gateway.HistoryWindow != 10 {
		t.Errorf("HistoryWindow = %d, want 10", cfg.Gateway.HistoryWindow)
	}
	if cfg.GatewayTimeout() != 30*time.Second {
		t.Errorf("GatewayTimeout() = %v, want 30s", cfg.GatewayTimeout())
	}

	// The template must decode to the same values as Default()
	again, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("second LoadFrom() error = %v", err)
	}
	if again.Gateway != cfg.Gateway || again.Provider != cfg.Provider || again.Client != cfg.Client {
		t.Errorf("template decodes differently from defaults:\n got  %+v\n want %+v", again, cfg)
	}
}

func TestLoadFromParsesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
[gateway]
listen = ":9000"
history_window = 6
max_message_length = 200
timeout_seconds = 5

[provider]
type = "anthropic"
model = "claude-sonnet-4-5-20250929"
temperature = 0.2
max_tokens = 512

[keybindings]
primary = "ctrl"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Gateway.Listen != ":9000" {
		t.Errorf("Listen = %q, want %q", cfg.Gateway.Listen, ":9000")
	}
	if cfg.Gateway.HistoryWindow != 6 {
		t.Errorf("HistoryWindow = %d, want 6", cfg.Gateway.HistoryWindow)
	}
	if cfg.Provider.Type != ProviderAnthropic {
		t.Errorf("Provider.Type = %q, want %q", cfg.Provider.Type, ProviderAnthropic)
	}
	if cfg.Provider.MaxTokens != 512 {
		t.Errorf("MaxTokens = %d, want 512", cfg.Provider.MaxTokens)
	}
	// Untouched keys keep their defaults
	if cfg.Client.GatewayURL != Default().Client.GatewayURL {
		t.Errorf("GatewayURL = %q, want default", cfg.Client.GatewayURL)
	}
	if got := cfg.KeyBindings.GetActionKey(ActionClearChat); got != "ctrl+l" {
		t.Errorf("clear_chat key = %q, want %q", got, "ctrl+l")
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	t.Setenv("CHATWIRE_LISTEN", ":7070")
	t.Setenv("CHATWIRE_GATEWAY_URL", "http://gw.internal:7070")
	t.Setenv("CHATWIRE_PROVIDER", "Gemini")
	t.Setenv("CHATWIRE_MODEL", "gemini-2.0-flash")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Gateway.Listen != ":7070" {
		t.Errorf("Listen = %q", cfg.Gateway.Listen)
	}
	if cfg.Client.GatewayURL != "http://gw.internal:7070" {
		t.Errorf("GatewayURL = %q", cfg.Client.GatewayURL)
	}
	if cfg.Provider.Type != ProviderGemini {
		t.Errorf("Provider.Type = %q, want %q", cfg.Provider.Type, ProviderGemini)
	}
	if cfg.Provider.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", cfg.Provider.Model)
	}
}

func TestGetSettingsFilePathHonorsEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "alt.toml")
	t.Setenv("CHATWIRE_CONFIG", want)

	if got := GetSettingsFilePath(); got != want {
		t.Errorf("GetSettingsFilePath() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Provider.Type = "bard" }, "unknown provider"},
		{"temperature too high", func(c *Config) { c.Provider.Temperature = 2.5 }, "temperature"},
		{"negative temperature", func(c *Config) { c.Provider.Temperature = -0.1 }, "temperature"},
		{"zero max tokens", func(c *Config) { c.Provider.MaxTokens = 0 }, "max_tokens"},
		{"zero history", func(c *Config) { c.Gateway.HistoryWindow = 0 }, "history_window"},
		{"zero message length", func(c *Config) { c.Gateway.MaxMessageLength = 0 }, "max_message_length"},
		{"zero timeout", func(c *Config) { c.Client.TimeoutSeconds = 0 }, "timeouts"},
		{"negative rate", func(c *Config) { c.Gateway.RateLimit = -1 }, "rate_limit"},
		{"rate without burst", func(c *Config) { c.Gateway.RateBurst = 0 }, "rate_burst"},
		{"rate disabled without burst", func(c *Config) { c.Gateway.RateLimit = 0; c.Gateway.RateBurst = 0 }, ""},
		{"shift modifier", func(c *Config) { c.KeyBindings.Primary = "shift" }, "keybindings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequiresCredential(t *testing.T) {
	tests := map[string]bool{
		ProviderOpenAI:     true,
		ProviderOpenRouter: true,
		ProviderAnthropic:  true,
		ProviderGemini:     true,
		ProviderOllama:     false,
	}

	for provider, want := range tests {
		cfg := Default()
		cfg.Provider.Type = provider
		if got := cfg.RequiresCredential(); got != want {
			t.Errorf("RequiresCredential() for %s = %v, want %v", provider, got, want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("CHATWIRE_TEST_DIR", "custom")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~/data", "/home/tester/data"},
		{"/var/$CHATWIRE_TEST_DIR/", "/var/custom"},
		{"relative/../dir", "dir"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
