// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and
	// status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_http_requests_total",
			Help: "HTTP requests processed, partitioned by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency per route pattern.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reasoner_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// DatabaseUp reports whether the PostgreSQL backend answers pings.
	// Always 0 in mock mode.
	DatabaseUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_database_up",
			Help: "1 if the PostgreSQL backend is reachable, 0 otherwise.",
		},
	)

	// LLMInteractionsTotal counts advisor calls by kind.
	LLMInteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_llm_interactions_total",
			Help: "LLM advisor interactions, partitioned by kind.",
		},
		[]string{"kind"},
	)

	// TemplateRecommendationsTotal counts recommendations by winning
	// template.
	TemplateRecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_template_recommendations_total",
			Help: "Template recommendations, partitioned by recommended template.",
		},
		[]string{"template"},
	)

	// LessonPlansCreatedTotal counts created lesson plans.
	LessonPlansCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reasoner_lesson_plans_created_total",
			Help: "Lesson plans created.",
		},
	)
)

// MustRegister registers all collectors on the given registry.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DatabaseUp,
		LLMInteractionsTotal,
		TemplateRecommendationsTotal,
		LessonPlansCreatedTotal,
	)
}

// ObserveHTTPRequest records one completed request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetDatabaseUp records the backend probe result.
func SetDatabaseUp(up bool) {
	if up {
		DatabaseUp.Set(1)
		return
	}
	DatabaseUp.Set(0)
}
