package gateway

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpmetrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
)

const (
	outcomesMetricName         = "chatwire_gateway_outcomes_total"
	providerDurationMetricName = "chatwire_provider_request_duration_seconds"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	outcomes         *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	http             middleware.Middleware
}

// NewMetrics registers the gateway collectors, HTTP RED metrics and the Go
// runtime collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: outcomesMetricName,
			Help: "Chat requests by outcome",
		}, []string{"outcome"}),
		providerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    providerDurationMetricName,
			Help:    "Upstream provider call latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
		http: middleware.New(middleware.Config{
			Recorder: httpmetrics.NewRecorder(httpmetrics.Config{Registry: reg}),
		}),
	}
}

// Handler serves the Prometheus exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument wraps h with HTTP request metrics labelled by handlerID.
func (m *Metrics) instrument(handlerID string, h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	return middlewarestd.Handler(handlerID, m.http, h)
}

func (m *Metrics) observeOutcome(o Outcome) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) observeProvider(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerDuration.WithLabelValues(name).Observe(d.Seconds())
}
