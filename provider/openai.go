package provider

import (
	"context"
	"fmt"

	"chatwire/config"
	"chatwire/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	log "github.com/sirupsen/logrus"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-3.5-turbo"
)

// OpenAIProvider implements the Provider interface using OpenAI's official API.
// It also backs OpenRouter, which speaks the same protocol.
type OpenAIProvider struct {
	client  openai.Client
	name    string
	model   string
	baseURL string
	creds   config.CredentialSource
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// The API key is not needed at construction: it is read from cfg.Credentials
// for every request. BaseURL defaults to "https://api.openai.com/v1" and Model
// to "gpt-3.5-turbo".
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	return newOpenAICompatible(string(ProviderTypeOpenAI), defaultOpenAIBaseURL, defaultOpenAIModel, cfg)
}

func newOpenAICompatible(name, defaultBaseURL, defaultModel string, cfg Config, extra ...option.RequestOption) (*OpenAIProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		// One attempt per user message; the gateway reports failures instead of retrying
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	opts = append(opts, extra...)

	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   modelName,
		baseURL: baseURL,
		creds:   cfg.Credentials,
	}, nil
}

// Complete implements Provider.Complete with a single non-streaming chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
	key := apiKey(p.creds)
	if key == "" {
		return nil, fmt.Errorf("%s: %w", p.name, config.ErrMissingCredential)
	}

	req := openai.ChatCompletionNewParams{
		Messages:    ConvertToOpenAIMessages(turns),
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(params.Temperature),
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(params.MaxTokens)
	}

	log.WithFields(log.Fields{
		"component": "provider",
		"provider":  p.name,
		"model":     p.model,
		"turns":     len(turns),
	}).Debug("sending chat completion")

	resp, err := p.client.Chat.Completions.New(ctx, req, option.WithAPIKey(key))
	if err != nil {
		return nil, normalizeOpenAIError(p.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%s: %w", p.name, model.ErrNoReply)
	}

	return &model.Completion{
		Text:  resp.Choices[0].Message.Content,
		Usage: usage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens),
	}, nil
}

// Name implements Provider.Name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// GetModel implements Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	key := apiKey(p.creds)
	if key == "" {
		return fmt.Errorf("%s: %w", p.name, config.ErrMissingCredential)
	}
	if _, err := p.client.Models.List(ctx, option.WithAPIKey(key)); err != nil {
		return fmt.Errorf("%s ping failed: %w", p.name, normalizeOpenAIError(p.name, err))
	}
	return nil
}
