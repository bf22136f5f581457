package provider

import (
	"context"
	"fmt"
	"strings"

	"chatwire/config"
	"chatwire/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	log "github.com/sirupsen/logrus"
)

const defaultAnthropicBaseURL = "https://api.anthropic.com"

// anthropicDefaultMaxTokens is used when Params.MaxTokens is unset; the API requires a value.
const anthropicDefaultMaxTokens = 1024

// AnthropicProvider implements the Provider interface using Anthropic's official API.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
	creds   config.CredentialSource
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// BaseURL defaults to "https://api.anthropic.com" and Model to Claude Sonnet 4.5.
// The API key is read from cfg.Credentials on every request.
func NewAnthropicProvider(cfg Config) (*AnthropicProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if cfg.Model != "" {
		anthropicModel = anthropic.Model(cfg.Model)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
		creds:   cfg.Credentials,
	}, nil
}

// Complete implements Provider.Complete. The system turn moves to the request's System field.
func (p *AnthropicProvider) Complete(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
	key := apiKey(p.creds)
	if key == "" {
		return nil, fmt.Errorf("anthropic: %w", config.ErrMissingCredential)
	}

	messages, system := convertToAnthropicMessages(turns)

	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	req := anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(params.Temperature),
	}
	if len(system) > 0 {
		req.System = system
	}

	log.WithFields(log.Fields{
		"component": "provider",
		"provider":  "anthropic",
		"model":     string(p.model),
		"turns":     len(turns),
	}).Debug("sending message")

	msg, err := p.client.Messages.New(ctx, req, option.WithAPIKey(key))
	if err != nil {
		return nil, normalizeAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic: %w", model.ErrNoReply)
	}

	return &model.Completion{
		Text:  text.String(),
		Usage: usage(msg.Usage.InputTokens, msg.Usage.OutputTokens, 0),
	}, nil
}

// Name implements Provider.Name.
func (p *AnthropicProvider) Name() string {
	return string(ProviderTypeAnthropic)
}

// GetModel implements Provider.GetModel.
func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

// Ping implements Provider.Ping by listing a single model, which costs no tokens.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	key := apiKey(p.creds)
	if key == "" {
		return fmt.Errorf("anthropic: %w", config.ErrMissingCredential)
	}

	_, err := p.client.Models.List(ctx, anthropic.ModelListParams{
		Limit: anthropic.Int(1),
	}, option.WithAPIKey(key))
	if err != nil {
		return fmt.Errorf("anthropic ping failed: %w", normalizeAnthropicError(err))
	}
	return nil
}
