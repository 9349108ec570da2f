package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "READINESS_"

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded over the defaults, so absent keys keep their default
// values. The result is validated. Environment variables are not consulted;
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named READINESS_SECTION_FIELD
// (e.g., READINESS_RETENTION_DAYS). Environment variables take precedence
// over the file.
//
// The loading sequence is:
// 1. Start from defaults
// 2. Decode the YAML file on top
// 3. Apply environment variable overrides
// 4. Validate the final configuration
//
// A missing file is not an error when path is empty: defaults and the
// environment alone are used.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefaultConfig()
	} else {
		var err error
		cfg, err = parseFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies READINESS_* environment variables. A variable
// that is set but cannot be parsed is reported as an error.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	dur := func(name string, dst *time.Duration) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid duration %q", val)})
				return
			}
			*dst = d
		}
	}
	integer := func(name string, dst *int) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid integer %q", val)})
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: fmt.Sprintf("invalid boolean %q", val)})
				return
			}
			*dst = b
		}
	}
	list := func(name string, dst *[]string) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok && val != "" {
			var out []string
			for _, part := range strings.Split(val, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			*dst = out
		}
	}

	// Server overrides
	str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	dur("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	dur("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	dur("SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)
	str("SERVER_ADMIN_TOKEN", &cfg.Server.AdminToken)
	list("SERVER_CORS_ALLOWED_ORIGINS", &cfg.Server.CORS.AllowedOrigins)
	boolean("SERVER_RATE_LIMIT_ENABLED", &cfg.Server.RateLimit.Enabled)
	integer("SERVER_RATE_LIMIT_REQUESTS_PER_MINUTE", &cfg.Server.RateLimit.RequestsPerMinute)
	integer("SERVER_RATE_LIMIT_BURST", &cfg.Server.RateLimit.Burst)
	boolean("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	str("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	str("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	// Storage overrides
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	dur("STORAGE_QUERY_TIMEOUT", &cfg.Storage.QueryTimeout)
	str("STORAGE_SQLITE_PATH", &cfg.Storage.SQLite.Path)
	str("STORAGE_SQLITE_DRIVER", &cfg.Storage.SQLite.Driver)
	str("STORAGE_POSTGRES_DSN", &cfg.Storage.Postgres.DSN)
	boolean("STORAGE_POSTGRES_AUTO_MIGRATE", &cfg.Storage.Postgres.AutoMigrate)

	// DATABASE_URL is honoured as a fallback for the Postgres DSN.
	if cfg.Storage.Postgres.DSN == "" {
		if val := os.Getenv("DATABASE_URL"); val != "" {
			cfg.Storage.Postgres.DSN = val
		}
	}

	// Retention overrides
	boolean("RETENTION_ENABLED", &cfg.Retention.Enabled)
	integer("RETENTION_DAYS", &cfg.Retention.Days)
	str("RETENTION_SCHEDULE", &cfg.Retention.Schedule)
	boolean("RETENTION_ARCHIVE_BEFORE_DELETE", &cfg.Retention.ArchiveBeforeDelete)
	str("RETENTION_ARCHIVE_PATH", &cfg.Retention.ArchivePath)

	// Telemetry overrides
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", ValidationError{Errors: errs})
	}
	return nil
}
