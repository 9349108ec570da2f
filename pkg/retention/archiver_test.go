package retention

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/assessment/storage"
)

func TestFileArchiver_Archive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	archiver := NewFileArchiver(dir)
	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)

	records := []*assessment.Assessment{
		{ID: "a", Email: "a@example.com", CreatedAt: now.Add(-100 * day)},
		{ID: "b", Email: "b@example.com", CreatedAt: now.Add(-95 * day)},
	}

	if err := archiver.Archive(context.Background(), records, now); err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}

	path := filepath.Join(dir, "assessments-20260601T030000Z.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("archive file not written: %v", err)
	}

	var archived []assessment.Assessment
	if err := json.Unmarshal(data, &archived); err != nil {
		t.Fatalf("archive is not valid JSON: %v", err)
	}
	if len(archived) != 2 || archived[0].ID != "a" {
		t.Errorf("archived = %+v, want records a and b", archived)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("archive directory has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestFileArchiver_SameSecondKeepsBothArchives(t *testing.T) {
	dir := t.TempDir()
	archiver := NewFileArchiver(dir)
	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)

	first := []*assessment.Assessment{{ID: "first", Email: "f@example.com", CreatedAt: now.Add(-100 * day)}}
	second := []*assessment.Assessment{{ID: "second", Email: "s@example.com", CreatedAt: now.Add(-100 * day)}}

	if err := archiver.Archive(context.Background(), first, now); err != nil {
		t.Fatalf("first Archive() failed: %v", err)
	}
	if err := archiver.Archive(context.Background(), second, now.Add(500*time.Millisecond)); err != nil {
		t.Fatalf("second Archive() failed: %v", err)
	}

	want := map[string]string{
		"assessments-20260601T030000Z.json":   "first",
		"assessments-20260601T030000Z-1.json": "second",
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != len(want) {
		t.Fatalf("archive files = %d, want %d", len(entries), len(want))
	}
	for name, id := range want {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("archive %s missing: %v", name, err)
		}
		var archived []assessment.Assessment
		if err := json.Unmarshal(data, &archived); err != nil {
			t.Fatalf("archive %s is not valid JSON: %v", name, err)
		}
		if len(archived) != 1 || archived[0].ID != id {
			t.Errorf("%s holds %+v, want record %s", name, archived, id)
		}
	}
}

func TestService_Cleanup_WithArchiver(t *testing.T) {
	store := storage.NewMemoryStorage()
	seed(t, store, map[string]time.Duration{"young": day, "old": 200 * day})
	dir := t.TempDir()

	svc := NewService(store, WithArchiver(NewFileArchiver(dir)))
	result, err := svc.Cleanup(context.Background(), testNow, 90*day)
	if err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if result.DeletedCount != 1 {
		t.Errorf("DeletedCount = %d, want 1", result.DeletedCount)
	}

	if _, err := os.Stat(filepath.Join(dir, ArchiveFileName(testNow))); err != nil {
		t.Errorf("archive file missing: %v", err)
	}
}
