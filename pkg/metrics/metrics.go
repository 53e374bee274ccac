package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLM completion call latency in milliseconds, per attempt.
	LLMCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_call_latency_ms",
			Help:    "LLM completion call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	// Plan generation outcomes across the whole pipeline.
	PlanGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_generation_count",
			Help: "Total number of plan generation requests",
		},
		[]string{"outcome"}, // outcome: success, generation_failed, save_failed
	)

	// Attempts consumed per successful generation.
	PlanGenerationAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_generation_attempts",
			Help:    "LLM attempts consumed per successful plan generation",
			Buckets: prometheus.LinearBuckets(1, 1, 5),
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	TaskStatusUpdateCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_update_count",
			Help: "Total number of task status updates",
		},
		[]string{"status", "outcome"},
	)
)

func RecordLLMCallLatency(status string, duration time.Duration) {
	LLMCallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func RecordPlanGeneration(outcome string) {
	PlanGenerationCount.WithLabelValues(outcome).Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordTaskStatusUpdate(status, outcome string) {
	TaskStatusUpdateCount.WithLabelValues(status, outcome).Inc()
}
