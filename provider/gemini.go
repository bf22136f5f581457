package provider

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"chatwire/config"
	"chatwire/model"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements the Provider interface using the Google Gen AI SDK
// against the Gemini API.
//
// genai binds the API key at client construction, so the client is rebuilt
// whenever the credential source yields a different key.
type GeminiProvider struct {
	model      string
	baseURL    string
	httpClient *http.Client
	creds      config.CredentialSource

	mu        sync.Mutex
	client    *genai.Client
	clientKey string
}

// NewGeminiProvider creates a new Gemini provider instance. Model defaults to
// "gemini-2.0-flash"; BaseURL is only needed for proxies and tests.
func NewGeminiProvider(cfg Config) (*GeminiProvider, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &GeminiProvider{
		model:      modelName,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		creds:      cfg.Credentials,
	}, nil
}

// clientFor returns a client bound to key, reusing the previous one when the key is unchanged.
func (p *GeminiProvider) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil && p.clientKey == key {
		return p.client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	p.client = client
	p.clientKey = key
	return client, nil
}

// Complete implements Provider.Complete. The system turn becomes the SystemInstruction.
func (p *GeminiProvider) Complete(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
	key := apiKey(p.creds)
	if key == "" {
		return nil, fmt.Errorf("gemini: %w", config.ErrMissingCredential)
	}

	client, err := p.clientFor(ctx, key)
	if err != nil {
		return nil, err
	}

	contents, system := convertToGeminiContents(turns)

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(params.Temperature)),
	}
	if params.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(params.MaxTokens)
	}

	log.WithFields(log.Fields{
		"component": "provider",
		"provider":  "gemini",
		"model":     p.model,
		"turns":     len(turns),
	}).Debug("generating content")

	result, err := client.Models.GenerateContent(ctx, p.model, contents, genCfg)
	if err != nil {
		return nil, normalizeGeminiError(err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", model.ErrNoReply)
	}

	completion := &model.Completion{Text: text}
	if md := result.UsageMetadata; md != nil {
		completion.Usage = usage(int64(md.PromptTokenCount), int64(md.CandidatesTokenCount), int64(md.TotalTokenCount))
	}
	return completion, nil
}

// Name implements Provider.Name.
func (p *GeminiProvider) Name() string {
	return string(ProviderTypeGemini)
}

// GetModel implements Provider.GetModel.
func (p *GeminiProvider) GetModel() string {
	return p.model
}

// Ping implements Provider.Ping by fetching the configured model's metadata.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	key := apiKey(p.creds)
	if key == "" {
		return fmt.Errorf("gemini: %w", config.ErrMissingCredential)
	}

	client, err := p.clientFor(ctx, key)
	if err != nil {
		return err
	}
	if _, err := client.Models.Get(ctx, p.model, nil); err != nil {
		return fmt.Errorf("gemini ping failed: %w", normalizeGeminiError(err))
	}
	return nil
}
