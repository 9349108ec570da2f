package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/cli"
)

func TestGetAssessment(t *testing.T) {
	ts := newTestStore(t, "")
	ts.seed(t, map[string]time.Duration{"a-1": day})
	assessmentsFlags.format = "json"

	out := capture(t, assessmentsGetCmd)
	if err := getAssessment(assessmentsGetCmd, []string{"a-1"}); err != nil {
		t.Fatalf("getAssessment() error = %v", err)
	}

	var got assessment.Assessment
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.ID != "a-1" || got.Email != "a-1@example.com" {
		t.Errorf("got %+v", got)
	}
}

func TestGetAssessment_NotFound(t *testing.T) {
	newTestStore(t, "")
	assessmentsFlags.format = "text"

	capture(t, assessmentsGetCmd)
	err := getAssessment(assessmentsGetCmd, []string{"missing"})
	if !errors.Is(err, assessment.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("error = %T, want *cli.CommandError", err)
	}
}

func TestExportAssessments_CSVFile(t *testing.T) {
	ts := newTestStore(t, "")
	ts.seed(t, map[string]time.Duration{
		"old-1": 40 * day,
		"old-2": 35 * day,
		"new-1": 2 * day,
	})
	output := filepath.Join(t.TempDir(), "export.csv")
	assessmentsFlags.format = "csv"
	assessmentsFlags.output = output
	assessmentsFlags.before = time.Now().UTC().Add(-30 * day).Format(time.RFC3339)

	if err := exportAssessments(assessmentsExportCmd, nil); err != nil {
		t.Fatalf("exportAssessments() error = %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "old-1" || rows[2][0] != "old-2" {
		t.Errorf("ids = %s, %s, want old-1, old-2", rows[1][0], rows[2][0])
	}
}

func TestExportAssessments_JSONStdout(t *testing.T) {
	ts := newTestStore(t, "")
	ts.seed(t, map[string]time.Duration{"a-1": day, "a-2": 2 * day})
	assessmentsFlags.format = "json"
	assessmentsFlags.email = "a-2@example.com"

	out := capture(t, assessmentsExportCmd)
	if err := exportAssessments(assessmentsExportCmd, nil); err != nil {
		t.Fatalf("exportAssessments() error = %v", err)
	}

	var got []assessment.Assessment
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, out.String())
	}
	if len(got) != 1 || got[0].ID != "a-2" {
		t.Errorf("got %d records, want only a-2", len(got))
	}
}

func TestBuildExportQuery(t *testing.T) {
	tests := []struct {
		name    string
		before  string
		after   string
		limit   int
		wantErr string
	}{
		{name: "empty"},
		{name: "range", after: "2026-01-01T00:00:00Z", before: "2026-02-01T00:00:00Z"},
		{name: "bad before", before: "yesterday", wantErr: "before"},
		{name: "bad after", after: "2026-13-01", wantErr: "after"},
		{name: "inverted range", after: "2026-02-01T00:00:00Z", before: "2026-01-01T00:00:00Z", wantErr: "after"},
		{name: "negative limit", limit: -1, wantErr: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			assessmentsFlags.before = tt.before
			assessmentsFlags.after = tt.after
			assessmentsFlags.limit = tt.limit

			query, err := buildExportQuery()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("buildExportQuery() error = %v", err)
				}
				if (tt.before != "") != (query.CreatedBefore != nil) {
					t.Errorf("CreatedBefore = %v", query.CreatedBefore)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestExportAssessments_UnknownFormat(t *testing.T) {
	newTestStore(t, "")
	assessmentsFlags.format = "xml"

	var cfgErr *cli.ConfigError
	if err := exportAssessments(assessmentsExportCmd, nil); !errors.As(err, &cfgErr) {
		t.Errorf("error = %v, want *cli.ConfigError", err)
	}
}
