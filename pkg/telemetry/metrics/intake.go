package metrics

import (
	"brightdesk-hq/readiness/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Intake results.
const (
	IntakeCreated = "created"
	IntakeInvalid = "invalid"
	IntakeError   = "error"

	// IntakeRateLimited counts submissions rejected before reaching the
	// handler.
	IntakeRateLimited = "rate_limited"
)

// IntakeMetrics counts assessment submissions by result.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
}

// NewIntakeMetrics creates and registers intake metrics with the provided registry.
func NewIntakeMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *IntakeMetrics {
	im := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "assessment_submissions_total",
				Help:      "Total number of assessment submissions by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(im.submissionsTotal)

	// Pre-create label values so the series exist before the first submission.
	for _, r := range []string{IntakeCreated, IntakeInvalid, IntakeError, IntakeRateLimited} {
		im.submissionsTotal.WithLabelValues(r)
	}

	return im
}
