// Readiness stores IT readiness assessments submitted by prospects and
// purges them once they fall outside the configured retention window.
//
// It provides:
//   - An HTTP intake API for assessment submissions
//   - Scheduled and on-demand retention cleanup
//   - SQLite, PostgreSQL and in-memory storage backends
//   - Prometheus metrics, OpenTelemetry tracing and health probes
//
// Usage:
//
//	# Start the server with default configuration
//	readiness serve
//
//	# Start with a custom configuration file
//	readiness serve --config /etc/readiness/config.yaml
//
//	# See what a cleanup would delete
//	readiness retention preview --days 30
//
//	# Run a cleanup now
//	readiness retention cleanup
//
//	# Export assessments older than a date
//	readiness assessments export --before 2026-01-01T00:00:00Z --format csv
//
//	# Apply PostgreSQL migrations
//	readiness migrate up
package main

func main() {
	Execute()
}
