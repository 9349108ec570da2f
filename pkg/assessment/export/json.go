package export

import (
	"context"
	"encoding/json"
	"io"

	"brightdesk-hq/readiness/pkg/assessment"
)

// JSONExporter exports assessments as a JSON array.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes records to w as a JSON array. An empty slice is written as [].
func (e *JSONExporter) Export(ctx context.Context, records []*assessment.Assessment, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []*assessment.Assessment{}
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return assessment.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return assessment.NewExportError("json", len(records), err)
	}
	return nil
}
