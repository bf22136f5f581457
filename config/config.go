package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GatewayConfig is the [gateway] table: the completion endpoint served by `chatwire serve`.
type GatewayConfig struct {
	Listen           string  `toml:"listen"`
	SystemPrompt     string  `toml:"system_prompt"`
	HistoryWindow    int     `toml:"history_window"`
	MaxMessageLength int     `toml:"max_message_length"`
	TimeoutSeconds   int     `toml:"timeout_seconds"`
	RateLimit        float64 `toml:"rate_limit"` // requests per second per client IP, 0 disables
	RateBurst        int     `toml:"rate_burst"`
	LogLevel         string  `toml:"log_level"`
}

// ProviderConfig is the [provider] table: which upstream model answers.
type ProviderConfig struct {
	Type            string  `toml:"type"`
	BaseURL         string  `toml:"base_url,omitempty"`
	Model           string  `toml:"model,omitempty"`
	Temperature     float64 `toml:"temperature"`
	MaxTokens       int64   `toml:"max_tokens"`
	CredentialsFile string  `toml:"credentials_file,omitempty"`
}

// ClientConfig is the [client] table: the chat window started by `chatwire chat`.
type ClientConfig struct {
	GatewayURL          string `toml:"gateway_url"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	PingIntervalSeconds int    `toml:"ping_interval_seconds"`
	DataDirectory       string `toml:"data_directory"`
}

type Config struct {
	Gateway     GatewayConfig     `toml:"gateway"`
	Provider    ProviderConfig    `toml:"provider"`
	Client      ClientConfig      `toml:"client"`
	KeyBindings KeyBindingsConfig `toml:"keybindings"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
}

func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.Client.TimeoutSeconds) * time.Second
}

func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Client.PingIntervalSeconds) * time.Second
}

func (c *Config) DataDir() string {
	return ExpandPath(c.Client.DataDirectory)
}

// RequiresCredential reports whether the configured provider needs an API key.
// Local Ollama does not.
func (c *Config) RequiresCredential() bool {
	return APIKeyEnvVar(c.Provider.Type) != ""
}

func (c *Config) applyEnvOverrides() {
	if listen := os.Getenv("CHATWIRE_LISTEN"); listen != "" {
		c.Gateway.Listen = listen
	}
	if url := os.Getenv("CHATWIRE_GATEWAY_URL"); url != "" {
		c.Client.GatewayURL = url
	}
	if provider := os.Getenv("CHATWIRE_PROVIDER"); provider != "" {
		c.Provider.Type = strings.ToLower(provider)
	}
	if model := os.Getenv("CHATWIRE_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if temp := os.Getenv("CHATWIRE_TEMPERATURE"); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			c.Provider.Temperature = v
		}
	}
}

// Validate checks ranges the gateway and client rely on.
func (c *Config) Validate() error {
	if !IsKnownProvider(c.Provider.Type) {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider.Type)
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]", ErrInvalidConfig, c.Provider.Temperature)
	}
	if c.Provider.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidConfig)
	}
	if c.Gateway.HistoryWindow <= 0 {
		return fmt.Errorf("%w: history_window must be positive", ErrInvalidConfig)
	}
	if c.Gateway.MaxMessageLength <= 0 {
		return fmt.Errorf("%w: max_message_length must be positive", ErrInvalidConfig)
	}
	if c.Gateway.TimeoutSeconds <= 0 || c.Client.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}
	if c.Gateway.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit cannot be negative", ErrInvalidConfig)
	}
	if c.Gateway.RateLimit > 0 && c.Gateway.RateBurst <= 0 {
		return fmt.Errorf("%w: rate_burst must be positive when rate_limit is set", ErrInvalidConfig)
	}
	if ok, msg := c.KeyBindings.Validate(); !ok {
		return fmt.Errorf("%w: keybindings: %s", ErrInvalidConfig, msg)
	}
	return nil
}

// Load reads the settings file (creating it from the template on first run),
// then applies environment overrides and validates the result.
func Load() (*Config, error) {
	return LoadFrom(GetSettingsFilePath())
}

// LoadFrom is Load for an explicit settings path.
func LoadFrom(path string) (*Config, error) {
	cfg, err := LoadSettings(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
