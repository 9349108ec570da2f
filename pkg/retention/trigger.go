package retention

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Recorder receives the outcome of retention runs, typically to export
// them as metrics.
type Recorder interface {
	RecordPreview(eligible int)
	RecordCleanup(deleted, attempted int64, failed bool, duration time.Duration)
}

// TriggerOption configures a Trigger.
type TriggerOption func(*Trigger)

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) TriggerOption {
	return func(t *Trigger) {
		t.now = now
	}
}

// WithRecorder reports every run to r.
func WithRecorder(r Recorder) TriggerOption {
	return func(t *Trigger) {
		t.recorder = r
	}
}

// WithLogger sets the trigger's logger.
func WithLogger(l *slog.Logger) TriggerOption {
	return func(t *Trigger) {
		t.logger = l
	}
}

// Trigger is the parameterless entry point used by the scheduler, the
// admin API and the CLI. It supplies the current time and the configured
// window, and serializes cleanup runs.
type Trigger struct {
	service  *Service
	now      func() time.Time
	recorder Recorder
	logger   *slog.Logger
	tracer   trace.Tracer

	mu     sync.RWMutex
	window time.Duration

	runMu sync.Mutex
}

// NewTrigger creates a trigger that runs svc with the given window.
func NewTrigger(svc *Service, window time.Duration, opts ...TriggerOption) *Trigger {
	t := &Trigger{
		service: svc,
		window:  window,
		now:     time.Now,
		logger:  slog.Default().With("component", "retention.trigger"),
		tracer:  otel.Tracer("brightdesk-hq/readiness/retention"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Window returns the current retention window.
func (t *Trigger) Window() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.window
}

// SetWindow replaces the retention window used by subsequent runs.
func (t *Trigger) SetWindow(window time.Duration) error {
	if _, err := NewPolicy(window); err != nil {
		return err
	}

	t.mu.Lock()
	old := t.window
	t.window = window
	t.mu.Unlock()

	if old != window {
		t.logger.Info("retention window updated",
			"old_window", old.String(),
			"new_window", window.String(),
		)
	}
	return nil
}

// PreviewCleanup reports what RunCleanup would delete right now.
func (t *Trigger) PreviewCleanup(ctx context.Context) (*PreviewResult, error) {
	window := t.Window()

	ctx, span := t.tracer.Start(ctx, "retention.preview",
		trace.WithAttributes(attribute.String("retention.window", window.String())))
	defer span.End()

	result, err := t.service.Preview(ctx, t.now(), window)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Error("retention preview failed", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("retention.eligible", result.Count))
	if t.recorder != nil {
		t.recorder.RecordPreview(result.Count)
	}

	t.logger.Debug("retention preview completed",
		"eligible_count", result.Count,
		"cutoff", result.Cutoff,
	)
	return result, nil
}

// RunCleanup deletes every assessment older than the window. Concurrent
// calls run one after another.
func (t *Trigger) RunCleanup(ctx context.Context) (*CleanupResult, error) {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	window := t.Window()
	start := time.Now()

	ctx, span := t.tracer.Start(ctx, "retention.cleanup",
		trace.WithAttributes(attribute.String("retention.window", window.String())))
	defer span.End()

	t.logger.Info("starting assessment cleanup", "window", window.String())

	result, err := t.service.Cleanup(ctx, t.now(), window)
	duration := time.Since(start)

	if result != nil {
		span.SetAttributes(
			attribute.Int64("retention.deleted", result.DeletedCount),
			attribute.Int64("retention.attempted", result.AttemptedCount),
		)
		if t.recorder != nil {
			t.recorder.RecordCleanup(result.DeletedCount, result.AttemptedCount, result.Failed, duration)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Error("assessment cleanup failed",
			"error", err,
			"duration", duration,
		)
		return result, err
	}

	if result.DeletedCount > 0 {
		t.logger.Info("assessment cleanup completed",
			"deleted_count", result.DeletedCount,
			"attempted_count", result.AttemptedCount,
			"cutoff", result.Cutoff,
			"duration", duration,
		)
	} else {
		t.logger.Debug("assessment cleanup completed, no records deleted")
	}

	return result, nil
}
