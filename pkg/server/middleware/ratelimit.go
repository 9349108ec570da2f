package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"brightdesk-hq/readiness/pkg/ratelimit"
)

// RateLimitMiddleware throttles requests per client address. Rejected
// requests get 429 with a Retry-After header, and onReject (if non-nil) is
// called for each of them.
//
// The client address is taken from r.RemoteAddr; put chi's RealIP middleware
// in front when running behind a trusted proxy.
func RateLimitMiddleware(limiter *ratelimit.Limiter, onReject func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := limiter.Allow(clientKey(r))

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				if onReject != nil {
					onReject()
				}
				retry := int(math.Ceil(result.RetryAfter.Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey returns the host part of RemoteAddr, or RemoteAddr unchanged
// when it has no port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
