// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of jobs currently being processed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	GenerationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_calls_total",
			Help: "Total number of text-generation calls by outcome",
		},
		[]string{"status"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "generation_call_duration_seconds",
			Help: "Duration of successful text-generation calls in seconds",
		},
	)

	StageEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stage_evaluations_total",
			Help: "Total number of stage evaluations by stage and outcome",
		},
		[]string{"stage", "proceed"},
	)

	PartialParses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_partial_parses_total",
			Help: "Total number of generation responses normalized via fallback",
		},
		[]string{"kind"},
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_persistence_failures_total",
			Help: "Total number of document store writes that failed after a successful generation",
		},
		[]string{"operation"},
	)
)
