package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1:latest"
)

// ErrModelNotPulled is returned by Ping when the server is up but does not
// have the configured model.
var ErrModelNotPulled = errors.New("model not pulled")

type Client struct {
	client *api.Client
	model  string
}

// NewClient creates a client for an Ollama server. A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL, model string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL: %q needs a scheme and host", baseURL)
	}

	return &Client{
		client: api.NewClient(parsedURL, httpClient),
		model:  model,
	}, nil
}

// Options are the sampling parameters passed through to the model.
type Options struct {
	Temperature float64
	NumPredict  int64
}

func (o Options) toMap() map[string]any {
	opts := map[string]any{"temperature": o.Temperature}
	if o.NumPredict > 0 {
		opts["num_predict"] = o.NumPredict
	}
	return opts
}

// Chat sends one non-streaming chat request and returns the final response.
func (c *Client) Chat(ctx context.Context, messages []api.Message, opts Options) (*api.ChatResponse, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options:  opts.toMap(),
	}

	var final *api.ChatResponse
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		final = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	if final == nil {
		return nil, fmt.Errorf("ollama returned no response")
	}
	return final, nil
}

type ModelInfo struct {
	Name string
	Size int64
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, len(resp.Models))
	for i, m := range resp.Models {
		models[i] = ModelInfo{Name: m.Name, Size: m.Size}
	}

	return models, nil
}

func (c *Client) GetModel() string {
	return c.model
}

// Ping checks that the server answers and has the configured model.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if sameModel(m.Name, c.model) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrModelNotPulled, c.model)
}

// sameModel compares names the way ollama resolves them: an untagged name
// means ":latest".
func sameModel(a, b string) bool {
	return withTag(a) == withTag(b)
}

func withTag(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}
