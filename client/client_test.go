package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chatwire/model"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

var _ model.Gateway = (*Client)(nil)

// fakeGateway records the last chat body and answers with a canned response.
type fakeGateway struct {
	status int
	body   string
	delay  time.Duration

	mu       sync.Mutex
	lastBody string
	lastPath string
}

func (f *fakeGateway) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.lastBody = string(data)
		f.lastPath = r.Method + " " + r.URL.Path
		f.mu.Unlock()

		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		io.WriteString(w, f.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeGateway) last() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath, f.lastBody
}

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	c, err := New(url, opts...)
	if err != nil {
		t.Fatalf("New(%q) error = %v", url, err)
	}
	return c
}

func TestCompleteSendsWireShape(t *testing.T) {
	gw := &fakeGateway{status: http.StatusOK, body: `{"reply":"Hi there!"}`}
	srv := gw.start(t)
	c := newTestClient(t, srv.URL+"/")

	reply, err := c.Complete(context.Background(), model.GatewayRequest{
		NewMessage: "Hello",
		History: []model.Turn{
			{Role: model.RoleUser, Text: "earlier question"},
			{Role: model.RoleAssistant, Text: "earlier answer"},
		},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if diff := cmp.Diff(model.GatewayReply{Reply: "Hi there!"}, reply); diff != "" {
		t.Errorf("reply mismatch (-want +got):\n%s", diff)
	}

	path, body := gw.last()
	if path != "POST /api/chat" {
		t.Errorf("request = %q, want POST /api/chat", path)
	}
	if got := gjson.Get(body, "message").String(); got != "Hello" {
		t.Errorf("message = %q, want Hello", got)
	}

	var senders, texts []string
	for _, turn := range gjson.Get(body, "conversationHistory").Array() {
		senders = append(senders, turn.Get("sender").String())
		texts = append(texts, turn.Get("message").String())
	}
	if diff := cmp.Diff([]string{"user", "assistant"}, senders); diff != "" {
		t.Errorf("senders mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"earlier question", "earlier answer"}, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteEmptyHistoryIsArray(t *testing.T) {
	gw := &fakeGateway{status: http.StatusOK, body: `{"reply":"ok"}`}
	c := newTestClient(t, gw.start(t).URL)

	if _, err := c.Complete(context.Background(), model.GatewayRequest{NewMessage: "hi"}); err != nil {
		t.Fatal(err)
	}
	_, body := gw.last()
	if !gjson.Get(body, "conversationHistory").IsArray() {
		t.Errorf("conversationHistory = %s, want an array", gjson.Get(body, "conversationHistory").Raw)
	}
}

func TestCompleteUsage(t *testing.T) {
	gw := &fakeGateway{
		status: http.StatusOK,
		body:   `{"reply":"ok","usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`,
	}
	c := newTestClient(t, gw.start(t).URL)

	reply, err := c.Complete(context.Background(), model.GatewayRequest{NewMessage: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	want := &model.Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}
	if diff := cmp.Diff(want, reply.Usage); diff != "" {
		t.Errorf("usage mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
		wantEmpty   bool
	}{
		{
			name:        "bad request",
			status:      http.StatusBadRequest,
			body:        `{"error":"No message provided"}`,
			wantStatus:  400,
			wantMessage: "No message provided",
		},
		{
			name:        "quota",
			status:      http.StatusTooManyRequests,
			body:        `{"error":"API quota exceeded or rate limited. Please try again later."}`,
			wantStatus:  429,
			wantMessage: "API quota exceeded or rate limited. Please try again later.",
		},
		{
			name:        "non json error body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantStatus:  502,
			wantMessage: "gateway returned 502 Bad Gateway",
		},
		{
			name:      "empty reply",
			status:    http.StatusOK,
			body:      `{"reply":""}`,
			wantEmpty: true,
		},
		{
			name:      "missing reply",
			status:    http.StatusOK,
			body:      `{}`,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{status: tt.status, body: tt.body}
			c := newTestClient(t, gw.start(t).URL)

			_, err := c.Complete(context.Background(), model.GatewayRequest{NewMessage: "hi"})
			if err == nil {
				t.Fatal("Complete() error = nil")
			}
			if errors.Is(err, model.ErrGatewayUnreachable) {
				t.Errorf("error %v marked unreachable although the gateway answered", err)
			}

			if tt.wantEmpty {
				if !errors.Is(err, model.ErrEmptyReply) {
					t.Errorf("error = %v, want model.ErrEmptyReply", err)
				}
				return
			}

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("error = %T %v, want *StatusError", err, err)
			}
			if se.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantStatus)
			}
			if se.Error() != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", se.Error(), tt.wantMessage)
			}
		})
	}
}

func TestCompleteMalformedSuccess(t *testing.T) {
	gw := &fakeGateway{status: http.StatusOK, body: `not json`}
	c := newTestClient(t, gw.start(t).URL)

	_, err := c.Complete(context.Background(), model.GatewayRequest{NewMessage: "hi"})
	if err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Errorf("Complete() error = %v, want malformed response error", err)
	}
}

func TestCompleteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.Complete(context.Background(), model.GatewayRequest{NewMessage: "hi"})
	if !errors.Is(err, model.ErrGatewayUnreachable) {
		t.Errorf("Complete() error = %v, want ErrGatewayUnreachable", err)
	}
}

func TestCompleteTimeout(t *testing.T) {
	gw := &fakeGateway{status: http.StatusOK, body: `{"reply":"late"}`, delay: time.Second}
	c := newTestClient(t, gw.start(t).URL, WithTimeout(50*time.Millisecond))

	_, err := c.Complete(context.Background(), model.GatewayRequest{NewMessage: "hi"})
	if !errors.Is(err, model.ErrGatewayUnreachable) {
		t.Errorf("Complete() error = %v, want ErrGatewayUnreachable", err)
	}
}

func TestCompleteContextCancelled(t *testing.T) {
	gw := &fakeGateway{status: http.StatusOK, body: `{"reply":"late"}`, delay: time.Second}
	c := newTestClient(t, gw.start(t).URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, model.GatewayRequest{NewMessage: "hi"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Complete() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestPing(t *testing.T) {
	gw := &fakeGateway{status: http.StatusOK, body: `{"status":"ok"}`}
	c := newTestClient(t, gw.start(t).URL)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if path, _ := gw.last(); path != "GET /healthz" {
		t.Errorf("request = %q, want GET /healthz", path)
	}

	down := &fakeGateway{status: http.StatusServiceUnavailable, body: `{"error":"draining"}`}
	c = newTestClient(t, down.start(t).URL)
	var se *StatusError
	if err := c.Ping(context.Background()); !errors.As(err, &se) || se.StatusCode != 503 {
		t.Errorf("Ping() error = %v, want 503 StatusError", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://nope"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) error = nil", raw)
		}
	}
}

func TestWithHTTPClientDoesNotMutateCaller(t *testing.T) {
	shared := &http.Client{}
	c := newTestClient(t, "http://127.0.0.1:1", WithHTTPClient(shared), WithTimeout(time.Second))

	if shared.Timeout != 0 {
		t.Errorf("caller's client Timeout = %s, want untouched", shared.Timeout)
	}
	if c.httpClient.Timeout != time.Second {
		t.Errorf("client Timeout = %s, want 1s", c.httpClient.Timeout)
	}
}
