package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GraphQLMetrics records Prometheus metrics for the GraphQL endpoint.
type GraphQLMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	renderDuration  *prometheus.HistogramVec
}

// NewGraphQLMetrics creates a metrics registry with the GraphQL instruments
// plus the standard Go runtime and process collectors.
func NewGraphQLMetrics() *GraphQLMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &GraphQLMetrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graphql_requests_total",
			Help: "Total number of GraphQL requests by operation type and outcome.",
		}, []string{"operation", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphql_request_duration_seconds",
			Help:    "GraphQL request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graphql_active_requests",
			Help: "Number of GraphQL requests currently being served.",
		}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "render_duration_seconds",
			Help: "Browser render latency in seconds by snapshot format.",
			// Renders are bounded by the navigation timeout, so the
			// default buckets top out too early.
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"format"}),
	}
	registry.MustRegister(m.requestsTotal, m.requestDuration, m.activeRequests, m.renderDuration)

	return m
}

// IncrementActiveRequests increments the in-flight request gauge
func (m *GraphQLMetrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
}

// DecrementActiveRequests decrements the in-flight request gauge
func (m *GraphQLMetrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// RecordRequest records the outcome of a single GraphQL request
func (m *GraphQLMetrics) RecordRequest(duration time.Duration, hasErrors bool, operationType string) {
	status := "ok"
	if hasErrors {
		status = "error"
	}
	m.requestsTotal.WithLabelValues(operationType, status).Inc()
	m.requestDuration.WithLabelValues(operationType).Observe(duration.Seconds())
}

// RecordRender records how long a browser render took for the given format
func (m *GraphQLMetrics) RecordRender(duration time.Duration, format string) {
	m.renderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// Handler exposes the registry for Prometheus scraping
func (m *GraphQLMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
