// Package config provides configuration management for the readiness
// service.
//
// Configuration is read from a YAML file, decoded over built-in defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Variables follow the naming convention READINESS_SECTION_FIELD:
//
//   - READINESS_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - READINESS_STORAGE_BACKEND overrides storage.backend
//   - READINESS_RETENTION_DAYS overrides retention.days
//   - READINESS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// DATABASE_URL is used for storage.postgres.dsn when nothing else sets it.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton and Hot Reload
//
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// Watcher reloads the file when it changes and hands the new configuration
// to a callback. serve uses this to apply a new retention window or
// schedule without a restart.
package config
