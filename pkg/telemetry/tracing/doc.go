// Package tracing sets up OpenTelemetry tracing with an OTLP gRPC exporter.
//
// Configuration:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "localhost:4317"
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// Spans are produced for HTTP requests (server middleware) and for each
// retention preview and cleanup run.
package tracing
