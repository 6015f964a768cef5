package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	cacheLookupsTotal        *prometheus.CounterVec
	feedbackSubmissionsTotal *prometheus.CounterVec
	surveyFanoutTotal        prometheus.Counter
	requestLatencySeconds    *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		cacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collection_cache_lookups_total",
			Help: "Collection cache lookups by outcome (hit, miss, expired, bypass).",
		}, []string{"collection", "outcome"})

		feedbackSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Feedback submissions by outcome (created, duplicate, orphan, error).",
		}, []string{"outcome"})

		surveyFanoutTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "survey_documents_created_total",
			Help: "Survey documents created, counting each fan-out target once.",
		})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(cacheLookupsTotal, feedbackSubmissionsTotal, surveyFanoutTotal, requestLatencySeconds)
	})
}

// CacheLookups exposes the counter for collection cache lookups.
func CacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return cacheLookupsTotal
}

// FeedbackSubmissions exposes the counter for feedback submission outcomes.
func FeedbackSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return feedbackSubmissionsTotal
}

// SurveyFanout exposes the counter for created survey documents.
func SurveyFanout() prometheus.Counter {
	RegisterMetrics()
	return surveyFanoutTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}
