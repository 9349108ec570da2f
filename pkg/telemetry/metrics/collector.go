package metrics

import (
	"time"

	"brightdesk-hq/readiness/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns every Prometheus metric exported by the readiness service.
// It implements retention.Recorder so the retention trigger can report runs
// without importing Prometheus.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics   *RequestMetrics
	intakeMetrics    *IntakeMetrics
	retentionMetrics *RetentionMetrics
}

// NewCollector creates a collector with the specified configuration and
// registry. When registry is nil a fresh registry is created with the Go
// runtime and process collectors attached.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	router.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		requestMetrics:   NewRequestMetrics(cfg, registry),
		intakeMetrics:    NewIntakeMetrics(cfg, registry),
		retentionMetrics: NewRetentionMetrics(cfg, registry),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest records a completed HTTP request. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRequest(method, route, status, duration)
}

// RequestStarted increments the in-flight gauge and returns a func that
// decrements it.
func (c *Collector) RequestStarted() func() {
	if !c.config.Enabled {
		return func() {}
	}
	c.requestMetrics.inFlight.Inc()
	return c.requestMetrics.inFlight.Dec
}

// RecordIntake records the outcome of an assessment submission.
// result is one of IntakeCreated, IntakeInvalid, IntakeError.
func (c *Collector) RecordIntake(result string) {
	if !c.config.Enabled {
		return
	}
	c.intakeMetrics.submissionsTotal.WithLabelValues(result).Inc()
}

// RecordPreview records the size of the eligible set seen by a preview.
func (c *Collector) RecordPreview(eligible int) {
	if !c.config.Enabled {
		return
	}
	c.retentionMetrics.eligible.Set(float64(eligible))
}

// RecordCleanup records the outcome of a cleanup run.
func (c *Collector) RecordCleanup(deleted, attempted int64, failed bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.retentionMetrics.RecordCleanup(deleted, attempted, failed, duration)
}
