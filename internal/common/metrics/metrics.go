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

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	UniversitiesMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "universities_matched_per_request",
			Help:    "Number of universities scored per match request",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		},
	)

	TasksGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_generated_total",
			Help: "Total number of tasks emitted by the generators",
		},
		[]string{"source", "category"},
	)
)
