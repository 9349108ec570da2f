package server

import (
	"log/slog"
	"net/http"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/config"
	"brightdesk-hq/readiness/pkg/ratelimit"
	"brightdesk-hq/readiness/pkg/retention"
	"brightdesk-hq/readiness/pkg/server/middleware"
	"brightdesk-hq/readiness/pkg/telemetry/health"
	"brightdesk-hq/readiness/pkg/telemetry/metrics"
	"brightdesk-hq/readiness/pkg/telemetry/tracing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Dependencies are the components the HTTP API is built on. Assessments,
// Retention and Health are required; the rest are optional.
type Dependencies struct {
	Assessments *assessment.Service
	Retention   *retention.Trigger
	Health      *health.Checker
	Metrics     *metrics.Collector
	Tracer      *tracing.Tracer
	Logger      *slog.Logger

	// RateLimiter throttles submissions per client when non-nil.
	RateLimiter *ratelimit.Limiter

	// Now is the intake clock. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the chi router with the full middleware chain.
//
// Routes:
//
//	POST /api/assessments          submit an assessment
//	GET  /api/assessments/{id}     fetch one assessment
//	GET  /api/admin/cleanup        preview retention cleanup
//	POST /api/admin/cleanup        run retention cleanup
//	GET  /health, /ready           probes
//	GET  /metrics                  Prometheus
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	h := newHandlers(cfg, deps)

	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	if cfg.Server.RateLimit.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestIDMiddleware)
	if deps.Tracer != nil && deps.Tracer.Enabled() {
		r.Use(middleware.TracingMiddleware(deps.Tracer))
	}
	r.Use(middleware.LoggingMiddleware(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.CORSMiddleware(cfg.Server.CORS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	probes := cfg.Telemetry.Health
	r.Method(http.MethodGet, probes.LivenessPath, deps.Health.LivenessHandler())
	r.Method(http.MethodHead, probes.LivenessPath, deps.Health.LivenessHandler())
	r.Method(http.MethodGet, probes.ReadinessPath, deps.Health.ReadinessHandler())
	r.Method(http.MethodHead, probes.ReadinessPath, deps.Health.ReadinessHandler())

	if deps.Metrics != nil && cfg.Telemetry.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Telemetry.Metrics.Path, deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))

		if deps.RateLimiter != nil {
			r.With(middleware.RateLimitMiddleware(deps.RateLimiter, h.rateLimited)).
				Post("/assessments", h.createAssessment)
		} else {
			r.Post("/assessments", h.createAssessment)
		}
		r.Get("/assessments/{id}", h.getAssessment)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuthMiddleware(cfg.Server.AdminToken))

			r.Get("/cleanup", h.previewCleanup)
			r.Post("/cleanup", h.runCleanup)
		})
	})

	return r
}
