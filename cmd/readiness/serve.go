package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/cli"
	"brightdesk-hq/readiness/pkg/config"
	"brightdesk-hq/readiness/pkg/ratelimit"
	"brightdesk-hq/readiness/pkg/retention"
	"brightdesk-hq/readiness/pkg/server"
	"brightdesk-hq/readiness/pkg/telemetry/health"
	"brightdesk-hq/readiness/pkg/telemetry/logging"
	"brightdesk-hq/readiness/pkg/telemetry/metrics"
	"brightdesk-hq/readiness/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the readiness server",
	Long: `Start the readiness HTTP server with the specified configuration.

The server accepts assessment submissions, exposes the admin cleanup
endpoints and runs scheduled retention cleanup when enabled.

Examples:
  # Start with default config
  readiness serve

  # Start with custom config
  readiness serve --config /etc/readiness/config.yaml

  # Override listen address
  readiness serve --listen 0.0.0.0:8080

  # Validate config without starting server
  readiness serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", true, "reload retention settings when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}

	logger, err := logging.Setup(logging.FromConfig(&cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// serve wires every component and blocks until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting readiness",
		"version", Version,
		"backend", cfg.Storage.Backend,
		"retention_days", cfg.Retention.Days,
	)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	store, err := openStorage(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	trigger := retention.NewTrigger(
		newRetentionService(&cfg.Retention, store),
		cfg.Retention.Window(),
		retention.WithRecorder(collector),
	)

	var scheduler *retention.Scheduler
	if cfg.Retention.Enabled {
		scheduler = retention.NewScheduler(trigger)
		if err := scheduler.Start(ctx, cfg.Retention.Schedule); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
		defer scheduler.Stop()
		if next := scheduler.NextRun(); next != nil {
			logger.Info("next retention cleanup scheduled", "at", next.UTC())
		}
	}

	if serveFlags.watch && configPath != "" {
		startWatcher(ctx, configPath, trigger, scheduler, logger)
	}

	var limiter *ratelimit.Limiter
	if cfg.Server.RateLimit.Enabled {
		limiter, err = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.Server.RateLimit.RequestsPerMinute,
			Burst:             cfg.Server.RateLimit.Burst,
		})
		if err != nil {
			return fmt.Errorf("failed to create rate limiter: %w", err)
		}
		go limiter.PruneEvery(ctx, time.Minute)
	}

	checker := health.New(cfg.Telemetry.Health.Timeout, Version)
	checker.RegisterCheck("storage", health.PingCheck(store))

	router := server.NewRouter(cfg, server.Dependencies{
		Assessments: assessment.NewService(store),
		Retention:   trigger,
		Health:      checker,
		Metrics:     collector,
		Tracer:      tracer,
		Logger:      logger,
		RateLimiter: limiter,
	})

	srv := server.NewServer(&cfg.Server, router)
	logger.Info("HTTP server listening", "address", cfg.Server.ListenAddress)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("readiness stopped")
	return nil
}

// startWatcher applies retention window and schedule changes from the
// config file without a restart. Other settings need a restart.
func startWatcher(ctx context.Context, path string, trigger *retention.Trigger, scheduler *retention.Scheduler, logger *slog.Logger) {
	watcher, err := config.NewWatcher(path)
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
		return
	}

	go func() {
		err := watcher.Watch(ctx, func(next *config.Config) {
			if err := trigger.SetWindow(next.Retention.Window()); err != nil {
				logger.Warn("ignoring retention window change", "error", err)
			}
			if scheduler != nil && scheduler.IsRunning() && next.Retention.Schedule != "" {
				if err := scheduler.Reschedule(next.Retention.Schedule); err != nil {
					logger.Warn("ignoring retention schedule change", "error", err)
				}
			}
		})
		if err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()
}
