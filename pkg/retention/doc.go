// Package retention deletes assessments once they are older than the
// configured retention window.
//
// # Policy
//
// A record is eligible for deletion when it was created strictly before
// the cutoff, now minus the window. A record created exactly at the cutoff
// is retained.
//
//	policy := retention.PolicyFromDays(90)
//	cutoff := policy.Cutoff(now)
//	policy.Eligible(a.CreatedAt, now)
//
// # Service
//
// Service runs the two-phase cleanup (select, then delete) against an
// assessment.Repository. It takes now and the window explicitly, performs
// no retry and does not log:
//
//	svc := retention.NewService(repo)
//	preview, err := svc.Preview(ctx, time.Now(), 90*24*time.Hour)
//	result, err := svc.Cleanup(ctx, time.Now(), 90*24*time.Hour)
//	if retention.IsCleanupFailed(err) {
//	    // result.Failed is true; result.DeletedCount is what was removed
//	}
//
// A failed select never leads to a delete. When an Archiver is configured
// the eligible records are archived between the two phases, and a failed
// archive also aborts before anything is deleted.
//
// # Trigger and Scheduler
//
// Trigger binds a Service to a clock, a window, metrics and logging, and
// serializes cleanup runs. Scheduler invokes the Trigger on a cron schedule:
//
//	trigger := retention.NewTrigger(svc, window)
//	scheduler := retention.NewScheduler(trigger)
//	if err := scheduler.Start(ctx, "0 3 * * *"); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// An empty schedule disables scheduled cleanup; the Trigger can still be
// invoked on demand.
package retention
