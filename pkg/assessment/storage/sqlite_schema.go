package storage

// SQLiteSchemaVersion is the current SQLite schema version.
const SQLiteSchemaVersion = 1

// sqliteSchema creates the assessments table. created_at holds UTC unix
// nanoseconds so that ordering and the strict cutoff comparison are exact.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS assessments (
	id                  TEXT PRIMARY KEY,
	email               TEXT NOT NULL,
	tech_stack          TEXT,
	monthly_tickets     TEXT,
	ticket_distribution TEXT,
	additional_context  TEXT,
	report_data         TEXT,
	created_at          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at, id);
CREATE INDEX IF NOT EXISTS idx_assessments_email ON assessments(email);

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at INTEGER NOT NULL
);
`

const sqliteInsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, strftime('%s', 'now'))
ON CONFLICT(version) DO NOTHING
`

const sqliteGetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1
`

const sqliteSelectColumns = "id, email, tech_stack, monthly_tickets, ticket_distribution, additional_context, report_data, created_at"
