// Package gateway is the server-side proxy between the chat window and the
// upstream LLM provider.
//
// The gateway validates one incoming turn, assembles the prompt from the
// system instruction and a bounded slice of history, makes exactly one
// provider call, and maps the result onto a small fixed set of outcomes. It
// keeps no state between requests.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"chatwire/config"
	"chatwire/model"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultHistoryWindow    = 10
	DefaultTimeout          = 30 * time.Second
	DefaultMaxMessageLength = 4000
)

// Request is one chat turn as received from the client.
type Request struct {
	NewMessage string
	History    []model.Turn
}

// Response is either a reply (Outcome OK) or a failure with a client-safe message.
type Response struct {
	Outcome Outcome
	Reply   string
	Usage   *model.Usage
	Error   string
}

// StatusCode returns the HTTP status for the response.
func (r Response) StatusCode() int {
	return r.Outcome.StatusCode()
}

func failure(o Outcome, msg string) Response {
	if msg == "" {
		msg = o.Message()
	}
	return Response{Outcome: o, Error: msg}
}

type Gateway struct {
	provider model.Provider
	creds    config.CredentialSource

	systemPrompt      string
	historyWindow     int
	timeout           time.Duration
	maxMessageLength  int
	requireCredential bool
	params            model.Params

	metrics *Metrics
	logger  *log.Entry
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithSystemPrompt(prompt string) Option {
	return func(g *Gateway) { g.systemPrompt = prompt }
}

func WithHistoryWindow(n int) Option {
	return func(g *Gateway) { g.historyWindow = n }
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithMaxMessageLength caps the new message, counted in runes after trimming.
// Zero or less disables the cap.
func WithMaxMessageLength(n int) Option {
	return func(g *Gateway) { g.maxMessageLength = n }
}

// WithRequireCredential controls the per-request API key check. Providers
// that need no key (local Ollama) turn it off.
func WithRequireCredential(required bool) Option {
	return func(g *Gateway) { g.requireCredential = required }
}

// WithParams sets the sampling parameters sent with every call.
func WithParams(p model.Params) Option {
	return func(g *Gateway) { g.params = p }
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

func WithLogger(l *log.Entry) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a gateway forwarding to p. creds is consulted on every request.
func New(p model.Provider, creds config.CredentialSource, opts ...Option) *Gateway {
	g := &Gateway{
		provider:          p,
		creds:             creds,
		systemPrompt:      config.DefaultSystemPrompt,
		historyWindow:     DefaultHistoryWindow,
		timeout:           DefaultTimeout,
		maxMessageLength:  DefaultMaxMessageLength,
		requireCredential: true,
		params:            model.Params{Temperature: 0.7, MaxTokens: 1000},
		logger:            log.WithField("component", "gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromConfig builds a gateway from the [gateway] and [provider] settings.
func FromConfig(cfg *config.Config, p model.Provider, creds config.CredentialSource, m *Metrics) *Gateway {
	return New(p, creds,
		WithSystemPrompt(cfg.Gateway.SystemPrompt),
		WithHistoryWindow(cfg.Gateway.HistoryWindow),
		WithTimeout(cfg.GatewayTimeout()),
		WithMaxMessageLength(cfg.Gateway.MaxMessageLength),
		WithRequireCredential(cfg.RequiresCredential()),
		WithParams(model.Params{
			Temperature: cfg.Provider.Temperature,
			MaxTokens:   cfg.Provider.MaxTokens,
		}),
		WithMetrics(m),
	)
}

// Provider returns the upstream provider, or nil if none is configured.
func (g *Gateway) Provider() model.Provider {
	return g.provider
}

// Complete answers one chat turn. It never returns raw provider errors; the
// Response carries only the classified outcome and its fixed message.
func (g *Gateway) Complete(ctx context.Context, req Request) Response {
	resp := g.complete(ctx, req)
	g.metrics.observeOutcome(resp.Outcome)
	return resp
}

func (g *Gateway) complete(ctx context.Context, req Request) Response {
	message := strings.TrimSpace(req.NewMessage)
	if message == "" {
		return failure(OutcomeBadRequest, MsgNoMessage)
	}
	if g.maxMessageLength > 0 && utf8.RuneCountInString(message) > g.maxMessageLength {
		return failure(OutcomeBadRequest, MsgMessageTooLong)
	}

	if g.provider == nil {
		g.logger.Error("no provider configured")
		return failure(OutcomeConfigurationError, "")
	}
	if g.requireCredential && (g.creds == nil || g.creds.APIKey() == "") {
		g.logger.WithField("provider", g.provider.Name()).Error("API key not configured")
		return failure(OutcomeConfigurationError, "")
	}

	prompt := BuildPrompt(g.systemPrompt, req.History, message, g.historyWindow)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	completion, err := g.provider.Complete(callCtx, prompt, g.params)
	elapsed := time.Since(start)
	g.metrics.observeProvider(g.provider.Name(), elapsed)

	entry := g.logger.WithFields(log.Fields{
		"provider": g.provider.Name(),
		"model":    g.provider.GetModel(),
		"turns":    len(prompt),
		"duration": elapsed,
	})

	if err == nil && (completion == nil || strings.TrimSpace(completion.Text) == "") {
		err = model.ErrNoReply
	}
	if err != nil {
		outcome := classify(err)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			outcome = OutcomeUnavailable
		}
		entry.WithError(err).WithField("outcome", outcome).Error("provider call failed")
		return failure(outcome, "")
	}

	entry.Debug("provider call succeeded")
	return Response{
		Outcome: OutcomeOK,
		Reply:   completion.Text,
		Usage:   completion.Usage,
	}
}
