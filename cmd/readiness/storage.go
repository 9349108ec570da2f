package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/assessment/storage"
	"brightdesk-hq/readiness/pkg/config"
	"brightdesk-hq/readiness/pkg/retention"
)

// openStorage opens the configured assessment store.
func openStorage(ctx context.Context, cfg *config.StorageConfig) (assessment.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return storage.NewSQLiteStorage(sqliteConfig(cfg))
	case "postgres":
		return storage.NewPostgresStorage(ctx, postgresConfig(cfg))
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func sqliteConfig(cfg *config.StorageConfig) *storage.SQLiteConfig {
	return &storage.SQLiteConfig{
		Path:         cfg.SQLite.Path,
		Driver:       cfg.SQLite.Driver,
		MaxOpenConns: cfg.SQLite.MaxOpenConns,
		MaxIdleConns: cfg.SQLite.MaxIdleConns,
		WALMode:      cfg.SQLite.WALMode,
		BusyTimeout:  cfg.SQLite.BusyTimeout,
		QueryTimeout: cfg.QueryTimeout,
	}
}

func postgresConfig(cfg *config.StorageConfig) *storage.PostgresConfig {
	return &storage.PostgresConfig{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		AutoMigrate:     cfg.Postgres.AutoMigrate,
		QueryTimeout:    cfg.QueryTimeout,
	}
}

// newRetentionService builds the retention service, archiving before
// delete when configured.
func newRetentionService(cfg *config.RetentionConfig, repo assessment.Repository) *retention.Service {
	var opts []retention.ServiceOption
	if cfg.ArchiveBeforeDelete {
		opts = append(opts, retention.WithArchiver(retention.NewFileArchiver(cfg.ArchivePath)))
	}
	return retention.NewService(repo, opts...)
}
