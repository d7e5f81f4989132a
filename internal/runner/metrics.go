package runner

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// solverRuns 按结果统计求解器调用次数
	// outcome: "ok", "exit_nonzero", "timeout", "io_error", "error"
	solverRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "judger_solver_runs_total",
		Help: "Total solver process runs by outcome",
	}, []string{"outcome"})

	solverRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "judger_solver_run_duration_seconds",
		Help:    "Wall-clock duration of solver process runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

func observeRun(start time.Time, out *Output, err error) {
	solverRunDuration.Observe(time.Since(start).Seconds())
	solverRuns.WithLabelValues(runOutcome(out, err)).Inc()
}

func runOutcome(out *Output, err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrIO):
		return "io_error"
	case err != nil:
		return "error"
	case out != nil && out.ExitCode != 0:
		return "exit_nonzero"
	default:
		return "ok"
	}
}
