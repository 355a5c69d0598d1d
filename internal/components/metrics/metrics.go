// Package metrics collects prometheus metrics about calls made to wodify.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OUTCOME_OK        = "ok"
	OUTCOME_DOMAIN    = "domain_error"
	OUTCOME_TRANSPORT = "transport_error"
	OUTCOME_PARSE     = "parse_error"
	OUTCOME_RESOLVE   = "resolution_error"
	OUTCOME_THROTTLED = "throttled"
)

// Collector implements wodify.MetricsAPI on top of prometheus.
type Collector struct {
	calls       *prometheus.CounterVec
	retries     *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wodassist_wodify_calls_total",
			Help: "Calls made to the wodify api, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wodassist_wodify_retries_total",
			Help: "Gateway retries after a timeout or transport error, by operation.",
		}, []string{"operation"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wodassist_wodify_call_seconds",
			Help:    "Latency of wodify api calls including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wodassist_wodify_endpoint_resolutions_total",
			Help: "Endpoint resolutions performed, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.calls,
		c.retries,
		c.latency,
		c.resolutions,
	)

	return c
}

func (c *Collector) RecordCall(operation, outcome string, duration time.Duration) {
	c.calls.WithLabelValues(operation, outcome).Inc()
	c.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordRetry(operation string) {
	c.retries.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordResolution(outcome string) {
	c.resolutions.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics gathered by g in the prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
