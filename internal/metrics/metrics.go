package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Click event outcomes
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

var (
	ClickEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_click_events_total",
			Help: "Click events received, by ingestion path and outcome",
		},
		[]string{"source", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_upstream_request_duration_seconds",
			Help:    "Duration of calls to the shortening and metadata services",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 7, 10},
		},
		[]string{"service", "outcome"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func RecordClickEvent(source, outcome string) {
	ClickEvents.WithLabelValues(source, outcome).Inc()
}

// ObserveUpstreamCall records the duration of a collaborator call; a nil err counts as success.
func ObserveUpstreamCall(service string, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	UpstreamDuration.WithLabelValues(service, outcome).Observe(d.Seconds())
}

func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
