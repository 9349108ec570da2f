package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"brightdesk-hq/readiness/pkg/cli"
	"brightdesk-hq/readiness/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool

	// configPath is the file the configuration was actually loaded from,
	// empty when running on defaults.
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Readiness - assessment intake and retention service",
	Long: `Readiness stores IT readiness assessments and removes them once they
are older than the configured retention window.

It provides:
  - An HTTP intake API for assessment submissions
  - Scheduled and on-demand retention cleanup with optional archiving
  - SQLite, PostgreSQL and in-memory storage backends
  - Prometheus metrics, OpenTelemetry tracing and health probes`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before environment overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the dotenv file, then the configuration file with
// environment overrides, and installs the result as the process-wide
// configuration. A missing config file is only an error when --config was
// given explicitly; otherwise defaults and the environment are used.
func loadConfig() (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NewConfigError("env-file", err.Error())
		}
	}

	path := cfgFile
	if !configFlagChanged() {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	config.SetConfig(cfg)
	configPath = path
	return cfg, nil
}

func configFlagChanged() bool {
	return rootCmd.PersistentFlags().Changed("config")
}
