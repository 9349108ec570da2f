package config

import (
	"math"
	"time"
)

// Config is the root configuration structure for the readiness service.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, CORS and the admin token.
	Server ServerConfig `yaml:"server"`

	// Storage selects and configures the assessment store.
	Storage StorageConfig `yaml:"storage"`

	// Retention configures the retention window and cleanup schedule.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry contains configuration for logging, metrics, tracing and
	// health checks.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single request.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes limits the size of a submission body.
	// Default: 1MB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// AdminToken, when set, is required as a bearer token on the admin
	// cleanup endpoints.
	AdminToken string `yaml:"admin_token"`

	// CORS contains cross-origin settings for the intake API.
	CORS CORSConfig `yaml:"cors"`

	// RateLimit throttles assessment submissions per client address.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TLS serves the API over HTTPS when enabled.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig holds the certificate the API serves with.
type TLSConfig struct {
	Enabled bool `yaml:"enabled"`

	// CertFile and KeyFile are PEM-encoded paths.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// MinVersion is "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites restricts TLS 1.2 suites by name. Empty keeps Go's
	// defaults. TLS 1.3 suites are not configurable.
	CipherSuites []string `yaml:"cipher_suites"`
}

// RateLimitConfig limits how often one client may submit an assessment.
type RateLimitConfig struct {
	// Enabled turns on intake rate limiting.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// RequestsPerMinute is the sustained submission rate per client.
	// Default: 30
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// Burst is how many submissions a client may make back to back.
	// Default: 10
	Burst int `yaml:"burst"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	// Default: false
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
}

// CORSConfig contains Cross-Origin Resource Sharing configuration.
type CORSConfig struct {
	// Enabled turns on CORS handling.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists origins allowed to call the API.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "Authorization", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// StorageConfig selects the assessment store backend.
type StorageConfig struct {
	// Backend is the storage backend.
	// Options: "memory", "sqlite", "postgres"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// QueryTimeout bounds every store call.
	// Default: 5s
	QueryTimeout time.Duration `yaml:"query_timeout"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres contains PostgreSQL backend configuration.
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/assessments.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite3" (cgo), "sqlite" (pure Go)
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// PostgresConfig contains PostgreSQL-specific configuration.
type PostgresConfig struct {
	// DSN is the connection string.
	DSN string `yaml:"dsn"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime recycles connections older than this.
	// Default: 30m
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// AutoMigrate applies pending migrations at startup.
	// Default: true
	AutoMigrate bool `yaml:"auto_migrate"`
}

// RetentionConfig contains assessment retention configuration.
type RetentionConfig struct {
	// Enabled turns on scheduled cleanup. The admin endpoints and CLI work
	// regardless.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Days is the retention window in days. Must be positive.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is a standard five-field cron expression.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// ArchiveBeforeDelete writes eligible records to ArchivePath before
	// deleting them.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the archive directory.
	// Default: "data/archive"
	ArchivePath string `yaml:"archive_path"`
}

// MaxRetentionDays is the largest retention.days that fits a time.Duration.
const MaxRetentionDays = int(math.MaxInt64 / int64(24*time.Hour))

// Window returns the retention window as a duration, saturating at
// MaxRetentionDays.
func (r RetentionConfig) Window() time.Duration {
	days := r.Days
	if days > MaxRetentionDays {
		days = MaxRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactEmails masks email addresses in log attributes.
	// Default: true
	RedactEmails bool `yaml:"redact_emails"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "readiness"
	Namespace string `yaml:"namespace"`

	// Subsystem is an optional second prefix.
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets are histogram buckets in seconds.
	// Default: [0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns on tracing.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is reported as service.name.
	// Default: "readiness"
	ServiceName string `yaml:"service_name"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the "ratio" sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS to the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout bounds span export calls.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// LivenessPath is the HTTP path of the liveness probe.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the HTTP path of the readiness probe.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// Timeout bounds each readiness check.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`
}
