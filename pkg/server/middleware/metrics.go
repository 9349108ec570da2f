package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder receives per-request measurements.
type RequestRecorder interface {
	RequestStarted() func()
	RecordRequest(method, route string, status int, duration time.Duration)
}

// MetricsMiddleware reports every request to rec, labelled by its chi route
// pattern so raw paths never become label values.
func MetricsMiddleware(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := rec.RequestStarted()
			defer done()

			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			rec.RecordRequest(r.Method, routePattern(r), rw.statusCode, time.Since(start))
		})
	}
}
