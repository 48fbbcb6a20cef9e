// Package metrics holds the server's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	documentOps     *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imenik",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "imenik",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		documentOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imenik",
			Name:      "document_operations_total",
			Help:      "Document store operations by collection kind, operation and result.",
		}, []string{"kind", "op", "result"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imenik",
			Name:      "auth_events_total",
			Help:      "Authentication events by type and result.",
		}, []string{"event", "result"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.documentOps,
		m.authEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served HTTP request. Unmatched requests should
// pass an empty route. All Observe methods are no-ops on a nil *Metrics.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveDocumentOp records a document store operation.
func (m *Metrics) ObserveDocumentOp(kind, op string, err error) {
	if m == nil {
		return
	}
	m.documentOps.WithLabelValues(kind, op, result(err)).Inc()
}

// ObserveAuth records a sign-up, sign-in or sign-out attempt.
func (m *Metrics) ObserveAuth(event string, err error) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
