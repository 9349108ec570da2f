package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/config"
	"brightdesk-hq/readiness/pkg/retention"
	"brightdesk-hq/readiness/pkg/server/middleware"
	"brightdesk-hq/readiness/pkg/telemetry/metrics"

	"github.com/go-chi/chi/v5"
)

// CreateResponse is returned by POST /api/assessments.
type CreateResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type handlers struct {
	assessments  *assessment.Service
	retention    *retention.Trigger
	metrics      *metrics.Collector
	logger       *slog.Logger
	now          func() time.Time
	maxBodyBytes int64
}

func newHandlers(cfg *config.Config, deps Dependencies) *handlers {
	h := &handlers{
		assessments:  deps.Assessments,
		retention:    deps.Retention,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          deps.Now,
		maxBodyBytes: cfg.Server.MaxBodyBytes,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("component", "api")
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *handlers) recordIntake(result string) {
	if h.metrics != nil {
		h.metrics.RecordIntake(result)
	}
}

func (h *handlers) rateLimited() {
	h.recordIntake(metrics.IntakeRateLimited)
}

func (h *handlers) createAssessment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	sub, err := assessment.ParseSubmission(body)
	if err != nil {
		h.recordIntake(metrics.IntakeInvalid)
		middleware.WriteError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	a, err := h.assessments.Create(r.Context(), sub, h.now())
	if err != nil {
		var verr *assessment.ValidationError
		switch {
		case errors.As(err, &verr):
			h.recordIntake(metrics.IntakeInvalid)
			middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{
				Error:         "missing required fields",
				MissingFields: verr.Missing,
			})
		case assessment.IsStoreUnavailable(err):
			h.recordIntake(metrics.IntakeError)
			h.logger.ErrorContext(r.Context(), "failed to store assessment", "error", err)
			middleware.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
		default:
			h.recordIntake(metrics.IntakeError)
			h.logger.ErrorContext(r.Context(), "failed to create assessment", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.recordIntake(metrics.IntakeCreated)
	h.logger.InfoContext(r.Context(), "assessment stored", "id", a.ID)

	middleware.WriteJSON(w, http.StatusCreated, CreateResponse{ID: a.ID, CreatedAt: a.CreatedAt})
}

func (h *handlers) getAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.assessments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, assessment.ErrNotFound):
			middleware.WriteError(w, http.StatusNotFound, "not found")
		case assessment.IsStoreUnavailable(err):
			h.logger.ErrorContext(r.Context(), "failed to load assessment", "error", err)
			middleware.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
		default:
			h.logger.ErrorContext(r.Context(), "failed to load assessment", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	middleware.WriteJSON(w, http.StatusOK, a)
}

func (h *handlers) previewCleanup(w http.ResponseWriter, r *http.Request) {
	// A client disconnect or the request timeout must not abort a run.
	result, err := h.retention.PreviewCleanup(context.WithoutCancel(r.Context()))
	if err != nil {
		if assessment.IsStoreUnavailable(err) {
			middleware.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

func (h *handlers) runCleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.retention.RunCleanup(context.WithoutCancel(r.Context()))
	if err != nil {
		if result != nil {
			// CleanupFailed still carries the counts.
			middleware.WriteJSON(w, http.StatusServiceUnavailable, result)
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}
