package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	bearerPattern = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
)

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = []string{
	"password", "secret", "token", "authorization", "dsn",
}

// Redactor masks PII in log attributes. Submitters' email addresses are the
// main concern: they appear in intake errors and in export logs.
type Redactor struct{}

// NewRedactor creates a Redactor.
func NewRedactor() *Redactor {
	return &Redactor{}
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr function.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, redactValue(a.Value.String()))
	}
	if a.Key == slog.MessageKey || a.Key == slog.TimeKey || a.Key == slog.LevelKey {
		return a
	}
	return slog.String(a.Key, r.RedactString(a.Value.String()))
}

// RedactString masks email addresses and bearer tokens inside value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	if strings.Contains(value, "@") {
		value = emailPattern.ReplaceAllStringFunc(value, RedactEmail)
	}
	if strings.Contains(value, "Bearer") {
		value = bearerPattern.ReplaceAllString(value, "Bearer ***")
	}
	return value
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// redactValue masks a sensitive value completely, keeping a short prefix
// for debugging.
func redactValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	return string(username[0]) + "***@" + domain
}
