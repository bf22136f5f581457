package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

func TestRecoverPanics(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name: "before response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"` + MsgUnavailable + `"}` + "\n",
		},
		{
			name: "after response started",
			handler: func(w http.ResponseWriter, r *http.Request) {
				respondWithJSON(w, http.StatusOK, chatResponse{Reply: "partial"})
				panic("boom")
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"reply":"partial"}` + "\n",
		},
		{
			name: "after bare write",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"reply":"x"}`))
				panic("boom")
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"reply":"x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := recoverPanics(log.WithField("component", "gateway"))(tt.handler)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
			if !gjson.Valid(rec.Body.String()) {
				t.Errorf("body is not a single JSON document: %q", rec.Body.String())
			}
		})
	}
}

func TestRecoverPanicsRepanicsOnAbort(t *testing.T) {
	h := recoverPanics(log.WithField("component", "gateway"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", v)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("ServeHTTP returned normally")
}
