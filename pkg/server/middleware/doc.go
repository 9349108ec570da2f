// Package middleware contains the HTTP middleware of the readiness API:
// request IDs, access logging, panic recovery, request timeouts, CORS,
// admin bearer authentication, Prometheus request metrics and tracing.
//
// The chain is assembled by pkg/server. Route-aware middleware (logging,
// metrics, tracing) reads the chi route pattern after the handler ran.
package middleware
