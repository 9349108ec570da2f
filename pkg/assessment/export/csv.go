package export

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
)

// CSVExporter exports assessments as CSV. Payload blobs are written as
// their raw JSON text.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

var csvHeader = []string{
	"id", "email", "created_at",
	"tech_stack", "monthly_tickets", "ticket_distribution",
	"additional_context",
}

// Export writes records to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*assessment.Assessment, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return assessment.NewExportError("csv", len(records), err)
		}
	}

	for _, a := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []string{
			a.ID,
			a.Email,
			a.CreatedAt.UTC().Format(time.RFC3339Nano),
			string(a.TechStack),
			string(a.MonthlyTickets),
			string(a.TicketDistribution),
			a.AdditionalContext,
		}
		if err := writer.Write(row); err != nil {
			return assessment.NewExportError("csv", len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return assessment.NewExportError("csv", len(records), err)
	}
	return nil
}
