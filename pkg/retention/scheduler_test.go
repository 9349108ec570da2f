package retention

import (
	"context"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/assessment/storage"
)

func newTestTrigger() *Trigger {
	return NewTrigger(NewService(storage.NewMemoryStorage()), 90*day)
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "valid daily schedule", schedule: "0 3 * * *", wantRunning: true},
		{name: "valid hourly schedule", schedule: "0 * * * *", wantRunning: true},
		{name: "empty schedule - no error, not running", schedule: "", wantRunning: false},
		{name: "invalid schedule", schedule: "invalid cron", wantError: true},
		{name: "seconds field is rejected", schedule: "0 0 3 * * *", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(newTestTrigger())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx, tt.schedule)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_NextRun(t *testing.T) {
	scheduler := NewScheduler(newTestTrigger())
	if scheduler.NextRun() != nil {
		t.Error("NextRun() should be nil before Start()")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx, "0 3 * * *"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer scheduler.Stop()

	next := scheduler.NextRun()
	if next == nil {
		t.Fatal("NextRun() = nil after Start()")
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextRun() = %v, want 03:00", next)
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun() = %v, want a future time", next)
	}
}

func TestScheduler_Reschedule(t *testing.T) {
	scheduler := NewScheduler(newTestTrigger())

	if err := scheduler.Reschedule("0 4 * * *"); err == nil {
		t.Error("Reschedule() on a stopped scheduler should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx, "0 3 * * *"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer scheduler.Stop()

	if err := scheduler.Reschedule("not a schedule"); err == nil {
		t.Error("Reschedule() with invalid expression should fail")
	}
	if scheduler.Schedule() != "0 3 * * *" {
		t.Errorf("Schedule() = %q after failed reschedule, want original", scheduler.Schedule())
	}

	if err := scheduler.Reschedule("30 4 * * *"); err != nil {
		t.Fatalf("Reschedule() failed: %v", err)
	}
	if scheduler.Schedule() != "30 4 * * *" {
		t.Errorf("Schedule() = %q, want %q", scheduler.Schedule(), "30 4 * * *")
	}

	next := scheduler.NextRun()
	if next == nil || next.Hour() != 4 || next.Minute() != 30 {
		t.Errorf("NextRun() = %v, want 04:30", next)
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	scheduler := NewScheduler(newTestTrigger())
	ctx, cancel := context.WithCancel(context.Background())

	if err := scheduler.Start(ctx, "0 3 * * *"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancellation")
	}
}
