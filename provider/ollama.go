package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"chatwire/model"
	"chatwire/ollama"

	log "github.com/sirupsen/logrus"
)

// OllamaProvider wraps the ollama.Client to implement the Provider interface.
//
// Ollama needs no API key; the gateway's credential check is skipped for it.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL (e.g., "http://localhost:11434").
//     If empty, defaults to "http://localhost:11434".
//   - model: The model name to use (e.g., "llama3.1:latest").
//     If empty, defaults to "llama3.1:latest".
//   - httpClient: optional transport override, nil for http.DefaultClient.
//
// Returns an error if the baseURL is invalid.
func NewOllamaProvider(baseURL, model string, httpClient *http.Client) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// Complete implements Provider.Complete with a single non-streaming chat request.
func (p *OllamaProvider) Complete(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
	log.WithFields(log.Fields{
		"component": "provider",
		"provider":  "ollama",
		"model":     p.client.GetModel(),
		"turns":     len(turns),
	}).Debug("sending chat")

	resp, err := p.client.Chat(ctx, ConvertToOllamaMessages(turns), ollama.Options{
		Temperature: params.Temperature,
		NumPredict:  params.MaxTokens,
	})
	if err != nil {
		return nil, normalizeOllamaError(err)
	}

	if resp.Message.Content == "" {
		return nil, fmt.Errorf("ollama: %w", model.ErrNoReply)
	}

	return &model.Completion{
		Text:  resp.Message.Content,
		Usage: usage(int64(resp.PromptEvalCount), int64(resp.EvalCount), 0),
	}, nil
}

// Name implements Provider.Name.
func (p *OllamaProvider) Name() string {
	return string(ProviderTypeOllama)
}

// GetModel implements Provider.GetModel (direct passthrough).
func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// Ping implements Provider.Ping. It also fails when the configured model has
// not been pulled.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	err := p.client.Ping(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ollama.ErrModelNotPulled):
		return fmt.Errorf("%w: %w", model.ErrModelNotAvailable, err)
	}
	return normalizeOllamaError(err)
}
