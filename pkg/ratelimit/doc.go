// Package ratelimit implements token bucket rate limiting keyed by client.
//
// Each key (typically a client IP address) gets its own bucket that holds up
// to Burst tokens and refills at RequestsPerMinute/60 tokens per second. A
// request consumes one token; when the bucket is empty the request is
// rejected with a suggested retry delay.
//
// Buckets that have been idle long enough to be full again carry no state
// worth keeping and are evicted by Prune.
package ratelimit
