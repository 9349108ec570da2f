// Package logging configures log/slog for the readiness service.
//
// New returns a *slog.Logger writing JSON or text. When RedactEmails is set
// a ReplaceAttr hook masks email addresses (jane@example.com becomes
// j***@example.com), bearer tokens, and the values of credential-like keys
// such as admin_token or dsn.
//
// Records logged with a context carry the request ID placed there by
// WithRequestID:
//
//	ctx := logging.WithRequestID(r.Context(), "req-123")
//	logger.InfoContext(ctx, "assessment stored", "id", id)
package logging
