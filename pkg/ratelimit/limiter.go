package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Config configures a Limiter.
type Config struct {
	// RequestsPerMinute is the sustained rate allowed per key.
	RequestsPerMinute int

	// Burst is the bucket capacity per key.
	Burst int
}

// CheckResult is the outcome of a single Allow call.
type CheckResult struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Limit is the bucket capacity.
	Limit int64

	// Remaining is how many requests the key may still make right now.
	Remaining int64

	// RetryAfter suggests how long to wait before retrying. Zero when
	// Allowed.
	RetryAfter time.Duration
}

// Limiter keeps one token bucket per key.
type Limiter struct {
	config Config
	rate   float64
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*TokenBucket
}

// NewLimiter creates a keyed limiter. Both limits must be positive.
func NewLimiter(config Config) (*Limiter, error) {
	return newLimiter(config, time.Now)
}

func newLimiter(config Config, now func() time.Time) (*Limiter, error) {
	if config.RequestsPerMinute <= 0 {
		return nil, errors.New("ratelimit: requests per minute must be positive")
	}
	if config.Burst <= 0 {
		return nil, errors.New("ratelimit: burst must be positive")
	}
	return &Limiter{
		config:  config,
		rate:    float64(config.RequestsPerMinute) / 60.0,
		now:     now,
		buckets: make(map[string]*TokenBucket),
	}, nil
}

// Allow consumes one token from key's bucket.
func (l *Limiter) Allow(key string) *CheckResult {
	bucket := l.bucket(key)

	if bucket.Take(1) {
		return &CheckResult{
			Allowed:   true,
			Limit:     bucket.Capacity(),
			Remaining: bucket.Remaining(),
		}
	}

	return &CheckResult{
		Allowed:    false,
		Limit:      bucket.Capacity(),
		Remaining:  0,
		RetryAfter: bucket.TimeUntilAvailable(1),
	}
}

func (l *Limiter) bucket(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = newTokenBucket(int64(l.config.Burst), l.rate, l.now)
		l.buckets[key] = b
	}
	return b
}

// Prune drops buckets that have refilled completely and returns how many
// were removed.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.idleFull() {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// PruneEvery calls Prune on every tick of interval until ctx is cancelled.
func (l *Limiter) PruneEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}
