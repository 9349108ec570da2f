package retention

import (
	"fmt"
	"math"
	"time"
)

// DefaultRetentionDays is the retention window used when none is configured.
const DefaultRetentionDays = 90

// MaxDays is the longest window a time.Duration can hold in whole days.
const MaxDays = int(math.MaxInt64 / int64(24*time.Hour))

// Policy decides which assessments are old enough to delete.
type Policy struct {
	Window time.Duration
}

// NewPolicy returns a Policy for the given window. The window must be positive.
func NewPolicy(window time.Duration) (Policy, error) {
	if window <= 0 {
		return Policy{}, fmt.Errorf("retention window must be positive, got %s", window)
	}
	return Policy{Window: window}, nil
}

// PolicyFromDays returns a Policy whose window is days whole days.
func PolicyFromDays(days int) Policy {
	return Policy{Window: Days(days)}
}

// Days converts a day count into a window. Counts above MaxDays saturate
// at MaxDays.
func Days(days int) time.Duration {
	if days > MaxDays {
		days = MaxDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Cutoff returns now minus the window.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.Add(-p.Window)
}

// Eligible reports whether a record created at createdAt is strictly older
// than the cutoff.
func (p Policy) Eligible(createdAt, now time.Time) bool {
	return createdAt.Before(p.Cutoff(now))
}
