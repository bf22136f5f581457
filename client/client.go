// Package client is the chat window's HTTP client for the completion gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatwire/model"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	chatPath   = "/api/chat"
	healthPath = "/healthz"

	// maxResponseBytes bounds how much of a gateway response is read.
	maxResponseBytes = 1 << 20
)

// StatusError is a non-2xx answer from the gateway. Message is the gateway's
// own error text, suitable for showing to the user.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The client is copied, never mutated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			copied := *hc
			c.httpClient = &copied
		}
	}
}

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the gateway at baseURL (e.g. "http://127.0.0.1:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid gateway URL: %q needs a scheme and host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     log.WithField("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the gateway address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type wireTurn struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type wireRequest struct {
	Message             string     `json:"message"`
	ConversationHistory []wireTurn `json:"conversationHistory"`
}

// Complete sends one turn to the gateway and returns its reply.
//
// Errors wrap model.ErrGatewayUnreachable when no HTTP response arrived, and
// are *StatusError when the gateway answered with an error status.
func (c *Client) Complete(ctx context.Context, req model.GatewayRequest) (model.GatewayReply, error) {
	body := wireRequest{
		Message:             req.NewMessage,
		ConversationHistory: make([]wireTurn, 0, len(req.History)),
	}
	for _, t := range req.History {
		body.ConversationHistory = append(body.ConversationHistory, wireTurn{
			Sender:  string(t.Role),
			Message: t.Text,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return model.GatewayReply{}, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(payload))
	if err != nil {
		return model.GatewayReply{}, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	status, data, err := c.do(httpReq)
	if err != nil {
		return model.GatewayReply{}, err
	}

	c.logger.WithFields(log.Fields{
		"status":   status,
		"history":  len(req.History),
		"duration": time.Since(start),
	}).Debug("chat request finished")

	if status < 200 || status > 299 {
		return model.GatewayReply{}, statusError(status, data)
	}

	if !gjson.ValidBytes(data) {
		return model.GatewayReply{}, fmt.Errorf("malformed gateway response (status %d)", status)
	}

	parsed := gjson.ParseBytes(data)
	reply := parsed.Get("reply").String()
	if strings.TrimSpace(reply) == "" {
		return model.GatewayReply{}, model.ErrEmptyReply
	}

	result := model.GatewayReply{Reply: reply}
	if u := parsed.Get("usage"); u.IsObject() {
		result.Usage = &model.Usage{
			PromptTokens:     u.Get("prompt_tokens").Int(),
			CompletionTokens: u.Get("completion_tokens").Int(),
			TotalTokens:      u.Get("total_tokens").Int(),
		}
	}
	return result, nil
}

// Ping checks that the gateway answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	status, data, err := c.do(httpReq)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return statusError(status, data)
	}
	return nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", model.ErrGatewayUnreachable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %w", model.ErrGatewayUnreachable, err)
	}
	return resp.StatusCode, data, nil
}

// statusError prefers the gateway's {error} text and falls back to the status line.
func statusError(status int, data []byte) *StatusError {
	msg := ""
	if gjson.ValidBytes(data) {
		msg = gjson.GetBytes(data, "error").String()
	}
	if msg == "" {
		msg = fmt.Sprintf("gateway returned %d %s", status, http.StatusText(status))
	}
	return &StatusError{StatusCode: status, Message: msg}
}
