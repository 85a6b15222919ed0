package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reply kinds used as the "kind" label
const (
	KindGreeting = "greeting"
	KindWeather  = "weather"
	KindNoCity   = "no_city"
	KindError    = "error"
)

// Metrics holds the collectors for the chat service. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	replies        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_chat_replies_total",
				Help: "Replies sent to chat sessions by kind.",
			},
			[]string{"kind"},
		),
		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_chat_lookup_duration_seconds",
				Help:    "Duration of weather provider lookups.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "weather_chat_active_sessions",
			Help: "Chat sessions currently tracked.",
		}),
	}
	m.registry.MustRegister(m.replies, m.lookupDuration, m.activeSessions)
	return m
}

// Handler exposes the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReply counts one reply of the given kind
func (m *Metrics) ObserveReply(kind string) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(kind).Inc()
}

// ObserveLookup records how long a provider call took
func (m *Metrics) ObserveLookup(failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.lookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SetActiveSessions publishes the current session count
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
