package metrics

import (
	"time"

	"brightdesk-hq/readiness/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RetentionMetrics tracks retention cleanup runs.
//
// Metrics:
//   - readiness_retention_runs_total: cleanup runs by status (success, failed)
//   - readiness_retention_deleted_total: assessments deleted by cleanup
//   - readiness_retention_eligible: eligible assessments seen by the last run or preview
//   - readiness_retention_run_duration_seconds: cleanup duration
//   - readiness_retention_last_run_timestamp_seconds: completion time of the last run
type RetentionMetrics struct {
	runsTotal    *prometheus.CounterVec
	deletedTotal prometheus.Counter
	eligible     prometheus.Gauge
	runDuration  prometheus.Histogram
	lastRun      prometheus.Gauge
}

// NewRetentionMetrics creates and registers retention metrics with the provided registry.
func NewRetentionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RetentionMetrics {
	rm := &RetentionMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_runs_total",
				Help:      "Total number of retention cleanup runs by status",
			},
			[]string{"status"},
		),

		deletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_deleted_total",
				Help:      "Total number of assessments deleted by retention cleanup",
			},
		),

		eligible: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_eligible",
				Help:      "Assessments eligible for deletion at the last run or preview",
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_run_duration_seconds",
				Help:      "Duration of retention cleanup runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
		),

		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_last_run_timestamp_seconds",
				Help:      "Unix time of the last completed retention run",
			},
		),
	}

	registry.MustRegister(rm.runsTotal, rm.deletedTotal, rm.eligible, rm.runDuration, rm.lastRun)

	return rm
}

// RecordCleanup records one cleanup run.
func (rm *RetentionMetrics) RecordCleanup(deleted, attempted int64, failed bool, duration time.Duration) {
	status := "success"
	if failed {
		status = "failed"
	}
	rm.runsTotal.WithLabelValues(status).Inc()
	rm.deletedTotal.Add(float64(deleted))
	rm.eligible.Set(float64(attempted))
	rm.runDuration.Observe(duration.Seconds())
	rm.lastRun.SetToCurrentTime()
}
