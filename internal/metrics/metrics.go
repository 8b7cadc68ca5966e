// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records HTTP-level metrics for the study API.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	sessions prometheus.Counter
	signups  prometheus.Counter
}

// NewCollector registers the API metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyleader_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studyleader_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyleader_focus_sessions_created_total",
			Help: "Focus sessions recorded.",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyleader_signups_total",
			Help: "Accounts created.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.sessions, c.signups)
	return c
}

// RecordRequest counts one finished HTTP request.
func (c *Collector) RecordRequest(route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordSessionCreated counts one recorded focus session.
func (c *Collector) RecordSessionCreated() { c.sessions.Inc() }

// RecordSignup counts one created account.
func (c *Collector) RecordSignup() { c.signups.Inc() }

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
