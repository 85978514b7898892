// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the service metrics.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  prometheus.Histogram
	authEvents    *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	profileLoads  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turnready_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turnready_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turnready_auth_events_total",
			Help: "Authentication events by kind (signup, signin, signout).",
		}, []string{"event"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turnready_gate_decisions_total",
			Help: "Access gate decisions by outcome.",
		}, []string{"decision"}),
		profileLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turnready_profile_loads_total",
			Help: "Profile loads by result (ok, missing, error).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.authEvents,
		c.gateDecisions,
		c.profileLoads,
	)

	return c
}

// RecordHTTPRequest records one completed request.
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// RecordAuthEvent records a signup, signin, or signout.
func (c *Collector) RecordAuthEvent(event string) {
	c.authEvents.WithLabelValues(event).Inc()
}

// RecordGateDecision records the outcome of one access gate evaluation.
func (c *Collector) RecordGateDecision(decision string) {
	c.gateDecisions.WithLabelValues(decision).Inc()
}

// RecordProfileLoad records the result of one profile fetch.
func (c *Collector) RecordProfileLoad(result string) {
	c.profileLoads.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape
// endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
