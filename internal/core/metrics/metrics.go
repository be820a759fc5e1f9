package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route and status"},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"},
	)

	GateDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gate_denials_total", Help: "Requests rejected by the access gate"},
		[]string{"code"},
	)
	EvaluationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "evaluations_created_total", Help: "Evaluation records persisted"},
	)
	FeedbackSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "feedback_submitted_total", Help: "Feedback records persisted"},
		[]string{"type"},
	)
	// ScoreParseFallbacks counts payloads whose score defaulted to zero.
	ScoreParseFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "score_parse_fallbacks_total", Help: "Feasibility payloads that failed to parse"},
		[]string{"dimension"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency,
		GateDenials, EvaluationsCreated, FeedbackSubmitted, ScoreParseFallbacks)
}
