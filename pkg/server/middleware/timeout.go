package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds each request's context with timeout. Store calls
// made with the request context fail once the deadline passes, and the
// handler maps that failure to 503. A zero timeout disables the bound.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
