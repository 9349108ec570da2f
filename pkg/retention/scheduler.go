package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Trigger on a cron schedule.
type Scheduler struct {
	trigger  *Trigger
	cron     *cron.Cron
	entry    cron.EntryID
	schedule string
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a new retention scheduler.
func NewScheduler(trigger *Trigger) *Scheduler {
	return &Scheduler{
		trigger: trigger,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "retention.scheduler"),
	}
}

// Start begins scheduled cleanup using a standard five-field cron
// expression, e.g. "0 3 * * *" for daily at 3 AM. An empty schedule leaves
// the scheduler stopped and returns nil.
//
// The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("retention scheduler already running")
	}

	if schedule == "" {
		s.logger.Info("cleanup schedule not configured, skipping scheduler")
		return nil
	}

	if err := s.addJob(schedule); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"window", s.trigger.Window().String(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Reschedule replaces the cleanup schedule of a running scheduler.
func (s *Scheduler) Reschedule(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("retention scheduler not running")
	}
	if schedule == s.schedule {
		return nil
	}
	if schedule == "" {
		return fmt.Errorf("cannot reschedule to an empty schedule")
	}

	old, oldSchedule := s.entry, s.schedule
	if err := s.addJob(schedule); err != nil {
		return err
	}
	s.cron.Remove(old)

	s.logger.Info("retention schedule updated",
		"old_schedule", oldSchedule,
		"new_schedule", schedule,
	)
	return nil
}

// addJob validates schedule and registers the cleanup job. Callers hold mu.
func (s *Scheduler) addJob(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	id, err := s.cron.AddFunc(schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.entry = id
	s.schedule = schedule
	return nil
}

// runCleanup executes one scheduled run. Failures are logged by the
// trigger and retried at the next scheduled time.
func (s *Scheduler) runCleanup() {
	s.logger.Info("starting scheduled assessment cleanup")
	_, _ = s.trigger.RunCleanup(context.Background())
}

// Stop stops the scheduler and waits for a running cleanup to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.cron.Remove(s.entry)
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Schedule returns the active cron expression.
func (s *Scheduler) Schedule() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.schedule
}

// NextRun returns the next scheduled cleanup time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	entry := s.cron.Entry(s.entry)
	if !entry.Valid() {
		return nil
	}

	next := entry.Next
	return &next
}
