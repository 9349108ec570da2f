package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"brightdesk-hq/readiness/pkg/assessment"
)

// SQLite driver names registered with database/sql.
const (
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverModernc = "sqlite"  // modernc.org/sqlite (pure Go)
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite3" or "sqlite".
	// Default: "sqlite3"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// QueryTimeout bounds every statement.
	// Default: 5 seconds
	QueryTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/assessments.db",
		Driver:       DriverMattn,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
		QueryTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements assessment.Storage using SQLite.
type SQLiteStorage struct {
	*sqlStore
	config *SQLiteConfig
	logger *slog.Logger
}

func sqliteDialect() dialect {
	return dialect{
		name:          "sqlite",
		placeholder:   func(int) string { return "?" },
		unlimited:     "-1",
		selectColumns: sqliteSelectColumns,
		timeArg:       func(t time.Time) any { return t.UTC().UnixNano() },
		newTimeDest: func() (any, func() time.Time) {
			var nanos int64
			return &nanos, func() time.Time { return time.Unix(0, nanos).UTC() }
		},
	}
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverMattn
	}
	if config.Driver != DriverMattn && config.Driver != DriverModernc {
		return nil, assessment.NewStorageError("sqlite", "open",
			fmt.Errorf("unsupported sqlite driver %q", config.Driver))
	}

	logger := slog.Default().With("component", "assessment.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, assessment.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		sqlStore: &sqlStore{
			db:           db,
			dialect:      sqliteDialect(),
			queryTimeout: config.QueryTimeout,
		},
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets pragmas, creates the schema and verifies its version.
func (s *SQLiteStorage) initialize() error {
	ctx := context.Background()

	if s.config.WALMode {
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return assessment.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return assessment.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return assessment.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.ExecContext(ctx, sqliteInsertSchemaVersion, SQLiteSchemaVersion); err != nil {
		return assessment.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, sqliteGetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return assessment.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SQLiteSchemaVersion {
		return assessment.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SQLiteSchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Close releases the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return assessment.NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("SQLite storage closed")
	return nil
}
