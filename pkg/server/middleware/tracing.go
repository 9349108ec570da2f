package middleware

import (
	"context"
	"net/http"

	"brightdesk-hq/readiness/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Starter starts spans; *tracing.Tracer satisfies it.
type Starter interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// TracingMiddleware starts a server span per request, continuing any W3C
// trace context sent by the caller. The span is renamed to the matched
// route once routing has happened.
func TracingMiddleware(tracer Starter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tracer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tracing.Extract(r.Context(), r.Header)
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPMethodKey.String(r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			if route := routePattern(r); route != "" {
				span.SetName(r.Method + " " + route)
				span.SetAttributes(semconv.HTTPRouteKey.String(route))
			}
			span.SetAttributes(semconv.HTTPStatusCodeKey.Int(rw.statusCode))
			if rw.statusCode >= 500 {
				tracing.SetStatus(span, errStatus(rw.statusCode))
			}
		})
	}
}
