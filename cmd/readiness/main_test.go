package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"brightdesk-hq/readiness/pkg/assessment"
	"brightdesk-hq/readiness/pkg/assessment/storage"
)

// testStore describes a sqlite-backed configuration written to a temp dir.
type testStore struct {
	configFile string
	dbPath     string
}

func newTestStore(t *testing.T, extra string) *testStore {
	t.Helper()

	dir := t.TempDir()
	ts := &testStore{
		configFile: filepath.Join(dir, "config.yaml"),
		dbPath:     filepath.Join(dir, "data", "assessments.db"),
	}

	content := `
storage:
  backend: sqlite
  sqlite:
    path: ` + ts.dbPath + `
    driver: sqlite
retention:
  enabled: false
  days: 30
` + extra
	if err := os.WriteFile(ts.configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	resetFlags(t)
	cfgFile = ts.configFile
	return ts
}

// seed inserts one assessment per id with the given age relative to now.
func (ts *testStore) seed(t *testing.T, ages map[string]time.Duration) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(ts.dbPath), 0o755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	cfg := storage.DefaultSQLiteConfig()
	cfg.Path = ts.dbPath
	cfg.Driver = storage.DriverModernc

	store, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC()
	for id, age := range ages {
		a := &assessment.Assessment{
			ID:                 id,
			Email:              id + "@example.com",
			TechStack:          json.RawMessage(`["zendesk"]`),
			MonthlyTickets:     json.RawMessage(`500`),
			TicketDistribution: json.RawMessage(`{"email":1}`),
			CreatedAt:          now.Add(-age),
		}
		if _, err := store.Insert(context.Background(), a); err != nil {
			t.Fatalf("Insert(%s) failed: %v", id, err)
		}
	}
}

// resetFlags restores every package-level flag value after the test.
func resetFlags(t *testing.T) {
	t.Helper()

	origCfg, origEnv, origVerbose := cfgFile, envFile, verbose
	origRetention, origAssessments, origServe := retentionFlags, assessmentsFlags, serveFlags

	envFile = ""
	verbose = false

	t.Cleanup(func() {
		cfgFile, envFile, verbose = origCfg, origEnv, origVerbose
		retentionFlags, assessmentsFlags, serveFlags = origRetention, origAssessments, origServe
		configPath = ""
	})
}

// capture points cmd's output at a buffer for the duration of the test.
func capture(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return buf
}
