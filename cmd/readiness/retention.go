package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"brightdesk-hq/readiness/pkg/cli"
	"brightdesk-hq/readiness/pkg/retention"
)

var retentionFlags struct {
	days   int
	dryRun bool
	format string
}

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Preview or run assessment retention cleanup",
	Long: `Preview or run retention cleanup against the configured store.

Assessments created strictly before now minus the retention window are
eligible. A record exactly at the cutoff is retained.

Subcommands:
  preview - List the assessments a cleanup would delete
  cleanup - Delete eligible assessments

Examples:
  # Preview with the configured window
  readiness retention preview

  # Preview with a 30 day window as JSON
  readiness retention preview --days 30 --format json

  # Run a cleanup
  readiness retention cleanup`,
}

var retentionPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "List assessments eligible for deletion",
	Args:  cobra.NoArgs,
	RunE:  previewRetention,
}

var retentionCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete assessments older than the retention window",
	Long: `Delete assessments older than the retention window.

Deletion is best effort: when the store fails part-way, the number of
assessments already deleted is reported and the command exits non-zero.
With archive_before_delete set, eligible assessments are written to the
archive directory first and nothing is deleted if archiving fails.`,
	Args: cobra.NoArgs,
	RunE: cleanupRetention,
}

func init() {
	rootCmd.AddCommand(retentionCmd)
	retentionCmd.AddCommand(retentionPreviewCmd, retentionCleanupCmd)

	retentionCmd.PersistentFlags().IntVar(&retentionFlags.days, "days", 0, "retention window in days (uses config if not specified)")
	retentionCmd.PersistentFlags().StringVar(&retentionFlags.format, "format", "text", "output format: text, json, csv")
	retentionCleanupCmd.Flags().BoolVar(&retentionFlags.dryRun, "dry-run", false, "preview instead of deleting")
}

func previewRetention(cmd *cobra.Command, args []string) error {
	return withRetentionTrigger(cmd, "retention preview", func(ctx context.Context, trigger *retention.Trigger, formatter cli.Formatter) error {
		result, err := trigger.PreviewCleanup(ctx)
		if err != nil {
			return err
		}
		return formatter.FormatTo(cmd.OutOrStdout(), result)
	})
}

func cleanupRetention(cmd *cobra.Command, args []string) error {
	if retentionFlags.dryRun {
		return previewRetention(cmd, args)
	}

	return withRetentionTrigger(cmd, "retention cleanup", func(ctx context.Context, trigger *retention.Trigger, formatter cli.Formatter) error {
		result, err := trigger.RunCleanup(ctx)
		if result != nil {
			if ferr := formatter.FormatTo(cmd.OutOrStdout(), result); ferr != nil && err == nil {
				return ferr
			}
		}
		return err
	})
}

// withRetentionTrigger loads configuration, opens the store and hands fn a
// trigger using either --days or the configured window.
func withRetentionTrigger(cmd *cobra.Command, name string, fn func(context.Context, *retention.Trigger, cli.Formatter) error) error {
	format, err := cli.ParseOutputFormat(retentionFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}
	if retentionFlags.days < 0 {
		return cli.NewConfigError("days", "must be positive")
	}
	if retentionFlags.days > retention.MaxDays {
		return cli.NewConfigError("days", fmt.Sprintf("must be at most %d", retention.MaxDays))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupCommandLogging(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	window := cfg.Retention.Window()
	if retentionFlags.days > 0 {
		window = retention.Days(retentionFlags.days)
	}

	ctx := commandContext(cmd)
	store, err := openStorage(ctx, &cfg.Storage)
	if err != nil {
		return cli.NewCommandError(name, err)
	}
	defer store.Close()

	trigger := retention.NewTrigger(
		newRetentionService(&cfg.Retention, store),
		window,
		retention.WithLogger(logger.With("component", "retention.trigger")),
	)

	if err := fn(ctx, trigger, formatter); err != nil {
		return cli.NewCommandError(name, err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
