package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/retention"
)

var testCutoff = time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)

func sampleAssessment() *assessment.Assessment {
	return &assessment.Assessment{
		ID:                 "a-1",
		Email:              "ops@example.com",
		TechStack:          json.RawMessage(`["zendesk"]`),
		MonthlyTickets:     json.RawMessage(`1200`),
		TicketDistribution: json.RawMessage(`{"email":0.6}`),
		CreatedAt:          testCutoff,
	}
}

func TestTextFormatter_Preview(t *testing.T) {
	buf := &bytes.Buffer{}
	result := &retention.PreviewResult{Count: 2, IDs: []string{"a", "b"}, Cutoff: testCutoff}

	if err := (&TextFormatter{}).FormatTo(buf, result); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Eligible: 2", "2026-01-30T00:00:00Z", "  a\n", "  b\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_Cleanup(t *testing.T) {
	tests := []struct {
		name   string
		result *retention.CleanupResult
		want   string
	}{
		{"success", &retention.CleanupResult{DeletedCount: 3, AttemptedCount: 3}, "Status:    ok"},
		{"failed", &retention.CleanupResult{DeletedCount: 1, AttemptedCount: 3, Failed: true}, "Status:    failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := (&TextFormatter{}).FormatTo(buf, tt.result); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTextFormatter_Assessment(t *testing.T) {
	buf := &bytes.Buffer{}
	a := sampleAssessment()
	a.AdditionalContext = "migrating in Q3"

	if err := (&TextFormatter{}).FormatTo(buf, a); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID:         a-1", "ops@example.com", `["zendesk"]`, "migrating in Q3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_Fallback(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), "test message\n")
	}
}

func TestJSONFormatter_Cleanup(t *testing.T) {
	buf := &bytes.Buffer{}
	result := &retention.CleanupResult{DeletedCount: 2, AttemptedCount: 2}

	if err := (&JSONFormatter{}).FormatTo(buf, result); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["deletedCount"] != float64(2) {
		t.Errorf("deletedCount = %v, want 2", decoded["deletedCount"])
	}
	if decoded["failed"] != false {
		t.Errorf("failed = %v, want false", decoded["failed"])
	}
}

func TestCSVFormatter(t *testing.T) {
	tests := []struct {
		name  string
		data  any
		lines []string
	}{
		{
			name:  "preview",
			data:  &retention.PreviewResult{Count: 2, IDs: []string{"a", "b"}},
			lines: []string{"id", "a", "b"},
		},
		{
			name:  "cleanup",
			data:  &retention.CleanupResult{DeletedCount: 1, AttemptedCount: 2, Failed: true},
			lines: []string{"deleted_count,attempted_count,failed", "1,2,true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := (&CSVFormatter{}).FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			got := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(got) != len(tt.lines) {
				t.Fatalf("got %d lines, want %d: %q", len(got), len(tt.lines), buf.String())
			}
			for i := range got {
				if got[i] != tt.lines[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.lines[i])
				}
			}
		})
	}
}

func TestCSVFormatter_Assessments(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&CSVFormatter{}).FormatTo(buf, []*assessment.Assessment{sampleAssessment()}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,email,created_at") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "a-1,ops@example.com,") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestCSVFormatter_Unsupported(t *testing.T) {
	if err := (&CSVFormatter{}).FormatTo(&bytes.Buffer{}, 42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"junit", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}
			if got := typeName(f); got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}

	if _, err := NewFormatter("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
