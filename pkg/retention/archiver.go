package retention

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/assessment/export"
)

// FileArchiver writes eligible assessments to a JSON file per cleanup run.
type FileArchiver struct {
	dir      string
	exporter *export.JSONExporter
	logger   *slog.Logger
}

// NewFileArchiver creates an archiver that writes into dir.
func NewFileArchiver(dir string) *FileArchiver {
	return &FileArchiver{
		dir:      dir,
		exporter: export.NewJSONExporter(true),
		logger:   slog.Default().With("component", "retention.archiver"),
	}
}

// ArchiveFileName returns the archive file name for a run at now.
func ArchiveFileName(now time.Time) string {
	return fmt.Sprintf("assessments-%s.json", now.UTC().Format("20060102T150405Z"))
}

// maxArchiveSuffix bounds the search for a free archive name within one second.
const maxArchiveSuffix = 1000

// Archive writes records to <dir>/assessments-<timestamp>.json, or
// assessments-<timestamp>-<n>.json when that name is taken. Existing archives
// are never replaced. The file is written to a temporary name and renamed
// over the reserved name once complete.
func (a *FileArchiver) Archive(ctx context.Context, records []*assessment.Assessment, now time.Time) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	path, err := a.reserve(now)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(path)
		}
	}()

	tmp, err := os.CreateTemp(a.dir, ".archive-*.json")
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := a.exporter.Export(ctx, records, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	committed = true

	a.logger.Info("assessments archived",
		"path", path,
		"record_count", len(records),
	)
	return nil
}

// reserve creates an empty file under the first free archive name for now.
func (a *FileArchiver) reserve(now time.Time) (string, error) {
	base := ArchiveFileName(now)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	for n := 0; n < maxArchiveSuffix; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		path := filepath.Join(a.dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create archive file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to create archive file: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free archive name for %s", base)
}
