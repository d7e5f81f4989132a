package judge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "judger_evaluations_total",
		Help: "Total evaluations by task type and outcome",
	}, []string{"task_type", "outcome"})

	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "judger_evaluation_duration_seconds",
		Help:    "Duration of evaluations including solver runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"task_type"})

	queueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "judger_queue_length",
		Help: "Jobs waiting for a worker",
	})

	rejectedJobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "judger_rejected_jobs_total",
		Help: "Jobs rejected because the queue was full",
	})
)
