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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Scoring
var (
	QScoreCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qscore_calculations_total",
			Help: "Total number of PRD Q-Scores calculated, by grade",
		},
		[]string{"grade"},
	)

	QScoreOverall = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qscore_overall_score",
			Help:    "Distribution of final overall scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	QScoreBluffSignals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qscore_bluff_signals_total",
			Help: "Bluff signals raised, by signal type and severity",
		},
		[]string{"signal", "severity"},
	)

	QScorePercentileFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qscore_percentile_fallbacks_total",
			Help: "Percentile lookups that fell back to the neutral 50th percentile",
		},
		[]string{"reason"},
	)

	QScoreCohortCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qscore_cohort_cache_total",
			Help: "Cohort cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
