package telemetry

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flewid_runs_total",
		Help: "Finished workflow runs by final status",
	}, []string{"status"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flewid_run_duration_seconds",
		Help:    "Wall time of finished workflow runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{"status"})

	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flewid_steps_total",
		Help: "Executed steps by type and status",
	}, []string{"type", "status"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flewid_step_duration_seconds",
		Help:    "Step executor call duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	unresolvedRefs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flewid_unresolved_references_total",
		Help: "Variable references left unresolved during substitution",
	})

	extractionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flewid_extraction_failures_total",
		Help: "Extraction rules that degraded to an empty record",
	}, []string{"type"})
)

// ObserveRun учитывает завершённый run.
func ObserveRun(status string, d time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.WithLabelValues(status).Observe(d.Seconds())
}

// ObserveStep учитывает выполненный шаг.
func ObserveStep(stepType, status string, d time.Duration) {
	stepType = strings.ToLower(stepType)
	stepsTotal.WithLabelValues(stepType, status).Inc()
	stepDuration.WithLabelValues(stepType).Observe(d.Seconds())
}

// AddUnresolved учитывает неразрешённые ссылки.
func AddUnresolved(n int) {
	if n > 0 {
		unresolvedRefs.Add(float64(n))
	}
}

// ObserveExtractionFailure учитывает деградировавшее извлечение.
func ObserveExtractionFailure(stepType string) {
	extractionFailures.WithLabelValues(strings.ToLower(stepType)).Inc()
}
