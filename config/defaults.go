package config

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOllama     = "ollama"
)

const DefaultSystemPrompt = "You are a helpful, concise assistant. Answer clearly and say so when you are unsure."

func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Listen:           "127.0.0.1:8080",
			SystemPrompt:     DefaultSystemPrompt,
			HistoryWindow:    10,
			MaxMessageLength: 4000,
			TimeoutSeconds:   30,
			RateLimit:        1,
			RateBurst:        5,
			LogLevel:         "info",
		},
		Provider: ProviderConfig{
			Type:        ProviderOpenAI,
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Client: ClientConfig{
			GatewayURL:          "http://127.0.0.1:8080",
			TimeoutSeconds:      35,
			PingIntervalSeconds: 30,
			DataDirectory:       "~/.local/share/chatwire",
		},
		KeyBindings: *DefaultKeybindings(),
	}
}

// IsKnownProvider reports whether id names a provider the gateway can build.
func IsKnownProvider(id string) bool {
	switch id {
	case ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic, ProviderGemini, ProviderOllama:
		return true
	}
	return false
}

func GenerateSettingsTemplate() string {
	return `# chatwire configuration
# Location: ~/.config/chatwire/settings.toml (override with CHATWIRE_CONFIG)
# This file uses TOML format: https://toml.io

[gateway]
# Address served by "chatwire serve" (CHATWIRE_LISTEN overrides)
listen = "127.0.0.1:8080"

# Instruction sent ahead of every conversation
system_prompt = "You are a helpful, concise assistant. Answer clearly and say so when you are unsure."

# Prior turns forwarded with each message
history_window = 10

# Longest accepted message, in characters
max_message_length = 4000

# Upper bound for one provider call
timeout_seconds = 30

# Per client IP token bucket; set rate_limit = 0 to disable
rate_limit = 1.0
rate_burst = 5

# trace, debug, info, warn, error
log_level = "info"

[provider]
# openai, openrouter, anthropic, gemini or ollama (CHATWIRE_PROVIDER overrides)
type = "openai"

# Leave empty for the provider default
# base_url = "https://api.openai.com/v1"
# model = "gpt-3.5-turbo"

temperature = 0.7
max_tokens = 1000

# API keys are read from the environment on every request:
#   OPENAI_API_KEY, OPENROUTER_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY
# Optionally also from a TOML file with a [credentials] table, reloaded on change:
# credentials_file = "~/.local/share/chatwire/credentials.toml"

[client]
# Gateway used by "chatwire chat" (CHATWIRE_GATEWAY_URL overrides)
gateway_url = "http://127.0.0.1:8080"
timeout_seconds = 35
ping_interval_seconds = 30

# debug.log is written here when CHATWIRE_DEBUG=1
data_directory = "~/.local/share/chatwire"

[keybindings]
primary = "alt"
secondary = "alt+shift"

# Per-action overrides, e.g.
# [keybindings.actions]
# clear_chat = "ctrl+l"
`
}
