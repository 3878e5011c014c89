// Package metrics exposes Prometheus counters for the handful of things
// worth watching on this service: generations, AI calls, and request timing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	allocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tosforge",
		Name:      "allocations_total",
		Help:      "TOS allocation attempts by outcome.",
	}, []string{"status"})

	generatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tosforge",
		Name:      "generates_total",
		Help:      "Document generation requests by outcome.",
	}, []string{"status"})

	aiDraftsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tosforge",
		Name:      "ai_drafts_total",
		Help:      "AI drafting calls by provider and outcome.",
	}, []string{"provider", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tosforge",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

func RecordAllocation(status string)        { allocationsTotal.WithLabelValues(status).Inc() }
func RecordGenerate(status string)          { generatesTotal.WithLabelValues(status).Inc() }
func RecordAIDraft(provider, status string) { aiDraftsTotal.WithLabelValues(provider, status).Inc() }

func RecordRequest(route, method, status string, seconds float64) {
	requestDuration.WithLabelValues(route, method, status).Observe(seconds)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
