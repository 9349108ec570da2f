package logging

import (
	"log/slog"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"jane@example.com", "j***@example.com"},
		{"@example.com", "***@example.com"},
		{"not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := RedactEmail(tt.input); got != tt.want {
				t.Errorf("RedactEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "cleanup finished", "cleanup finished"},
		{"embedded email", "duplicate submission from bob@corp.io", "duplicate submission from b***@corp.io"},
		{"two emails", "a@x.com b@y.org", "a***@x.com b***@y.org"},
		{"bearer", "Authorization: Bearer abc.def", "Authorization: Bearer ***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_ReplaceAttr(t *testing.T) {
	r := NewRedactor()

	if got := r.ReplaceAttr(nil, slog.Int("count", 3)); got.Value.Int64() != 3 {
		t.Errorf("non-string attribute changed: %v", got)
	}
	if got := r.ReplaceAttr(nil, slog.String("dsn", "postgres://u:p@db/x")); got.Value.String() != "post***" {
		t.Errorf("expected dsn masked, got %q", got.Value.String())
	}
	if got := r.ReplaceAttr(nil, slog.String(slog.MessageKey, "mail a@b.co")); got.Value.String() != "mail a@b.co" {
		t.Errorf("message should not be rewritten, got %q", got.Value.String())
	}
}
