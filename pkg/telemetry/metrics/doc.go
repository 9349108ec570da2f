// Package metrics exposes Prometheus metrics for the readiness service.
//
// # Metrics
//
// HTTP:
//   - readiness_http_requests_total{method, route, status}
//   - readiness_http_request_duration_seconds{method, route}
//   - readiness_http_requests_in_flight
//
// Intake:
//   - readiness_assessment_submissions_total{result}
//
// Retention:
//   - readiness_retention_runs_total{status}
//   - readiness_retention_deleted_total
//   - readiness_retention_eligible
//   - readiness_retention_run_duration_seconds
//   - readiness_retention_last_run_timestamp_seconds
//
// The Collector satisfies retention.Recorder, so the retention trigger
// reports runs through it directly.
package metrics
