package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/assessment/export"
	"brightdesk-hq/readiness/pkg/cli"
)

var assessmentsFlags struct {
	format string
	output string
	before string
	after  string
	email  string
	limit  int
}

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Inspect and export stored assessments",
	Long: `Inspect and export stored assessments.

Subcommands:
  get    - Print one assessment by id
  export - Export assessments as JSON or CSV

Time Format:
  RFC3339, e.g. 2026-01-01T00:00:00Z

Examples:
  # Print one assessment
  readiness assessments get 6f1c2a9e-3b7d-4a55-9a0e-2f7d1c4b8e11

  # Export everything created before 2026 as CSV
  readiness assessments export --before 2026-01-01T00:00:00Z --format csv --output old.csv`,
}

var assessmentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one assessment",
	Args:  cobra.ExactArgs(1),
	RunE:  getAssessment,
}

var assessmentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export assessments",
	Args:  cobra.NoArgs,
	RunE:  exportAssessments,
}

func init() {
	rootCmd.AddCommand(assessmentsCmd)
	assessmentsCmd.AddCommand(assessmentsGetCmd, assessmentsExportCmd)

	assessmentsGetCmd.Flags().StringVar(&assessmentsFlags.format, "format", "text", "output format: text, json, csv")

	assessmentsExportCmd.Flags().StringVar(&assessmentsFlags.format, "format", "json", "output format: json, csv")
	assessmentsExportCmd.Flags().StringVarP(&assessmentsFlags.output, "output", "o", "", "output file (default: stdout)")
	assessmentsExportCmd.Flags().StringVar(&assessmentsFlags.before, "before", "", "only assessments created before this time (RFC3339)")
	assessmentsExportCmd.Flags().StringVar(&assessmentsFlags.after, "after", "", "only assessments created at or after this time (RFC3339)")
	assessmentsExportCmd.Flags().StringVar(&assessmentsFlags.email, "email", "", "filter by submitter email")
	assessmentsExportCmd.Flags().IntVar(&assessmentsFlags.limit, "limit", 0, "max results (0 = no limit)")
}

func getAssessment(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(assessmentsFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupCommandLogging(cfg); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	ctx := commandContext(cmd)
	store, err := openStorage(ctx, &cfg.Storage)
	if err != nil {
		return cli.NewCommandError("assessments get", err)
	}
	defer store.Close()

	a, err := assessment.NewService(store).GetByID(ctx, args[0])
	if errors.Is(err, assessment.ErrNotFound) {
		return cli.NewCommandError("assessments get", fmt.Errorf("assessment %s: %w", args[0], err))
	}
	if err != nil {
		return cli.NewCommandError("assessments get", err)
	}

	return formatter.FormatTo(cmd.OutOrStdout(), a)
}

func exportAssessments(cmd *cobra.Command, args []string) error {
	var exporter assessment.Exporter
	switch assessmentsFlags.format {
	case "json":
		exporter = export.NewJSONExporter(true)
	case "csv":
		exporter = export.NewCSVExporter(true)
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unsupported export format %q (json, csv)", assessmentsFlags.format))
	}

	query, err := buildExportQuery()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupCommandLogging(cfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	ctx := commandContext(cmd)
	store, err := openStorage(ctx, &cfg.Storage)
	if err != nil {
		return cli.NewCommandError("assessments export", err)
	}
	defer store.Close()

	records, err := store.List(ctx, query)
	if err != nil {
		return cli.NewCommandError("assessments export", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if assessmentsFlags.output != "" {
		f, err := os.Create(assessmentsFlags.output)
		if err != nil {
			return cli.NewCommandError("assessments export", fmt.Errorf("failed to create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	if err := exporter.Export(ctx, records, w); err != nil {
		return cli.NewCommandError("assessments export", err)
	}

	logger.Info("assessments exported",
		"count", len(records),
		"format", assessmentsFlags.format,
		"output", assessmentsFlags.output,
	)
	return nil
}

func buildExportQuery() (*assessment.Query, error) {
	query := &assessment.Query{
		Email:     assessmentsFlags.email,
		Limit:     assessmentsFlags.limit,
		SortOrder: "asc",
	}

	if assessmentsFlags.before != "" {
		t, err := time.Parse(time.RFC3339, assessmentsFlags.before)
		if err != nil {
			return nil, cli.NewConfigError("before", fmt.Sprintf("invalid time %q: %v", assessmentsFlags.before, err))
		}
		query.CreatedBefore = &t
	}
	if assessmentsFlags.after != "" {
		t, err := time.Parse(time.RFC3339, assessmentsFlags.after)
		if err != nil {
			return nil, cli.NewConfigError("after", fmt.Sprintf("invalid time %q: %v", assessmentsFlags.after, err))
		}
		query.CreatedAfter = &t
	}
	if query.CreatedBefore != nil && query.CreatedAfter != nil && !query.CreatedAfter.Before(*query.CreatedBefore) {
		return nil, cli.NewConfigError("after", "must be earlier than --before")
	}
	if query.Limit < 0 {
		return nil, cli.NewConfigError("limit", "must not be negative")
	}

	return query, nil
}
