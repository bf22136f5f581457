package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"chatwire/model"
	"chatwire/provider"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// MaxBodyBytes caps the request body of POST /api/chat.
	MaxBodyBytes = 1 << 20

	readyTimeout = 5 * time.Second
)

// HandlerConfig holds the HTTP-only settings of the gateway.
type HandlerConfig struct {
	Metrics *Metrics

	// RateLimit is requests per second per client IP on /api/chat; 0 disables.
	RateLimit float64
	RateBurst int
}

type server struct {
	gateway *Gateway
	logger  *log.Entry
}

type chatResponse struct {
	Reply string       `json:"reply"`
	Usage *model.Usage `json:"usage,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the gateway's HTTP surface:
//
//	POST /api/chat  one chat turn
//	GET  /healthz   liveness
//	GET  /readyz    upstream provider reachability
//	GET  /metrics   Prometheus exposition (when cfg.Metrics is set)
func NewHandler(gw *Gateway, cfg HandlerConfig) http.Handler {
	s := &server{
		gateway: gw,
		logger:  gw.logger,
	}
	m := cfg.Metrics
	limiter := newIPLimiter(cfg.RateLimit, cfg.RateBurst)

	router := mux.NewRouter()
	router.Use(requestLogger(s.logger), recoverPanics(s.logger))

	router.Handle("/api/chat", m.instrument("/api/chat", limiter.wrap(http.HandlerFunc(s.handleChat), m))).Methods(http.MethodPost)
	router.Handle("/healthz", m.instrument("/healthz", http.HandlerFunc(s.handleHealth))).Methods(http.MethodGet)
	router.Handle("/readyz", m.instrument("/readyz", http.HandlerFunc(s.handleReady))).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failureResponse(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failureResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.logger.WithError(err).Warn("failed to read chat request body")
		s.gateway.metrics.observeOutcome(OutcomeBadRequest)
		failureResponse(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	req, ok := parseChatRequest(data)
	if !ok {
		s.gateway.metrics.observeOutcome(OutcomeBadRequest)
		failureResponse(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	resp := s.gateway.Complete(r.Context(), req)
	if resp.Outcome != OutcomeOK {
		failureResponse(w, resp.StatusCode(), resp.Error)
		return
	}
	respondWithJSON(w, http.StatusOK, chatResponse{Reply: resp.Reply, Usage: resp.Usage})
}

// parseChatRequest reads {message, conversationHistory:[{sender, message}]}.
// An absent or null message parses as empty and is rejected by Complete; a
// message of any other non-string type, or a malformed history, is invalid.
func parseChatRequest(data []byte) (Request, bool) {
	if !gjson.ValidBytes(data) {
		return Request{}, false
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Request{}, false
	}

	var req Request
	switch msg := root.Get("message"); msg.Type {
	case gjson.Null:
	case gjson.String:
		req.NewMessage = msg.Str
	default:
		return Request{}, false
	}

	history := root.Get("conversationHistory")
	if history.Type == gjson.Null {
		return req, true
	}
	if !history.IsArray() {
		return Request{}, false
	}

	for _, item := range history.Array() {
		if !item.IsObject() {
			return Request{}, false
		}
		sender, text := item.Get("sender"), item.Get("message")
		if sender.Type != gjson.String || text.Type != gjson.String {
			return Request{}, false
		}
		role, ok := senderRole(sender.Str)
		if !ok {
			return Request{}, false
		}
		req.History = append(req.History, model.Turn{Role: role, Text: text.Str})
	}
	return req, true
}

// senderRole maps a wire sender onto a role; "bot" is an alias of "assistant".
func senderRole(sender string) (model.Role, bool) {
	switch sender {
	case "user":
		return model.RoleUser, true
	case "assistant", "bot":
		return model.RoleAssistant, true
	}
	return "", false
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	result := provider.Check(ctx, s.gateway.Provider())
	status := http.StatusOK
	if !result.Ready {
		status = http.StatusServiceUnavailable
	}
	respondWithJSON(w, status, result)
}

func respondWithJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithField("component", "gateway").WithError(err).Warn("failed to write response")
	}
}

func failureResponse(w http.ResponseWriter, status int, msg string) {
	respondWithJSON(w, status, errorResponse{Error: msg})
}
