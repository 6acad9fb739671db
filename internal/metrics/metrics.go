// Package metrics exposes Prometheus collectors for basket decisions.
//
// Metrics exposed (all namespaced with "basket_"):
//
//  1. requests_total (counter): handled basket requests.
//     Labels: endpoint (vulnerable/fixed), decision (accepted/rejected).
//     Use: compare how many invalid quantities each endpoint let through.
//
// Each BasketMetrics owns its registry so tests and multiple servers in one
// process never collide on the global default registerer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Endpoint labels.
const (
	EndpointVulnerable = "vulnerable"
	EndpointFixed      = "fixed"
)

// Decision labels.
const (
	DecisionAccepted = "accepted"
	DecisionRejected = "rejected"
)

// BasketMetrics holds the basket collectors and their registry.
//
// Thread-safe: Prometheus collectors handle concurrent updates.
type BasketMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// New creates a registry with Go runtime + process collectors and the
// basket decision counter.
func New() *BasketMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &BasketMetrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basket",
			Name:      "requests_total",
			Help:      "Handled add-to-basket requests by endpoint and decision",
		}, []string{"endpoint", "decision"}),
	}
}

// RecordDecision increments requests_total for the given endpoint and decision.
func (m *BasketMetrics) RecordDecision(endpoint, decision string) {
	m.requests.WithLabelValues(endpoint, decision).Inc()
}

// Requests exposes the counter vector (used by tests via testutil).
func (m *BasketMetrics) Requests() *prometheus.CounterVec {
	return m.requests
}

// Handler serves the registry in the Prometheus exposition format.
func (m *BasketMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
