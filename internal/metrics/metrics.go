// Package metrics exposes prometheus instruments for the storefront client.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type Metrics struct {
	Requests   *prometheus.CounterVec
	LatencyMS  *prometheus.HistogramVec
	Rollbacks  *prometheus.CounterVec
	FeedEvents *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Commerce backend calls by outcome.",
		}, []string{"client", "method", "route", "outcome"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_ms",
			Help:      "Commerce backend call latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"client", "route"}),
		Rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "rollbacks_total",
			Help:      "Optimistic cart mutations reverted after a failed confirmation.",
		}, []string{"op"}),
		FeedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "livefeed",
			Name:      "events_total",
			Help:      "Server-pushed statistics events by name.",
		}, []string{"event"}),
	}

	reg.MustRegister(m.Requests, m.LatencyMS, m.Rollbacks, m.FeedEvents)
	return m
}

func (m *Metrics) ObserveRequest(client, method, route, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(client, method, route, outcome).Inc()
	m.LatencyMS.WithLabelValues(client, route).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) ObserveRollback(op string) {
	if m == nil {
		return
	}
	m.Rollbacks.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveFeedEvent(event string) {
	if m == nil {
		return
	}
	m.FeedEvents.WithLabelValues(event).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
