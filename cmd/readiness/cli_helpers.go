package main

import (
	"log/slog"
	"os"

	"brightdesk-hq/readiness/pkg/config"
	"brightdesk-hq/readiness/pkg/telemetry/logging"
)

// setupCommandLogging routes logs to stderr so that command output on
// stdout stays machine readable.
func setupCommandLogging(cfg *config.Config) (*slog.Logger, error) {
	logCfg := logging.FromConfig(&cfg.Telemetry.Logging)
	logCfg.Writer = os.Stderr
	if !verbose {
		logCfg.Level = "warn"
	}
	return logging.Setup(logCfg)
}
