package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/assessment/export"
	"brightdesk-hq/readiness/pkg/retention"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as human-readable text.
type TextFormatter struct{}

// FormatTo writes data to writer in text format. Retention results and
// assessments get a dedicated layout; anything else is printed with %v.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case *retention.PreviewResult:
		if _, err := fmt.Fprintf(w, "Cutoff:   %s\nEligible: %d\n", v.Cutoff.UTC().Format(time.RFC3339), v.Count); err != nil {
			return err
		}
		for _, id := range v.IDs {
			if _, err := fmt.Fprintf(w, "  %s\n", id); err != nil {
				return err
			}
		}
		return nil
	case *retention.CleanupResult:
		status := "ok"
		if v.Failed {
			status = "failed"
		}
		_, err := fmt.Fprintf(w, "Deleted:   %d\nAttempted: %d\nStatus:    %s\n", v.DeletedCount, v.AttemptedCount, status)
		return err
	case *assessment.Assessment:
		return writeAssessmentText(w, v)
	case []*assessment.Assessment:
		for i, a := range v {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := writeAssessmentText(w, a); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

func writeAssessmentText(w io.Writer, a *assessment.Assessment) error {
	_, err := fmt.Fprintf(w,
		"ID:         %s\nEmail:      %s\nCreated:    %s\nTech stack: %s\nTickets:    %s\nSplit:      %s\n",
		a.ID, a.Email, a.CreatedAt.UTC().Format(time.RFC3339),
		a.TechStack, a.MonthlyTickets, a.TicketDistribution)
	if err != nil {
		return err
	}
	if a.AdditionalContext != "" {
		_, err = fmt.Fprintf(w, "Context:    %s\n", a.AdditionalContext)
	}
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats output as CSV. Assessments are delegated to the CSV
// exporter so the CLI and archive layouts match.
type CSVFormatter struct{}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case *assessment.Assessment:
		return export.NewCSVExporter(true).Export(context.Background(), []*assessment.Assessment{v}, w)
	case []*assessment.Assessment:
		return export.NewCSVExporter(true).Export(context.Background(), v, w)
	case *retention.PreviewResult:
		return writeCSV(w, [][]string{{"id"}}, func(cw *csv.Writer) error {
			for _, id := range v.IDs {
				if err := cw.Write([]string{id}); err != nil {
					return err
				}
			}
			return nil
		})
	case *retention.CleanupResult:
		return writeCSV(w, [][]string{
			{"deleted_count", "attempted_count", "failed"},
			{
				strconv.FormatInt(v.DeletedCount, 10),
				strconv.FormatInt(v.AttemptedCount, 10),
				strconv.FormatBool(v.Failed),
			},
		}, nil)
	default:
		return fmt.Errorf("csv output is not supported for %T", data)
	}
}

func writeCSV(w io.Writer, rows [][]string, more func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	if more != nil {
		if err := more(cw); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatCSV:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (text, json, csv)", s)
	}
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	case FormatText, "":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
