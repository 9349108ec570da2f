package main

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/config"
	"brightdesk-hq/readiness/pkg/telemetry/logging"
)

func TestRunServe_DryRun(t *testing.T) {
	newTestStore(t, "")
	serveFlags.dryRun = true
	serveFlags.logLevel = "error"

	out := capture(t, serveCmd)
	if err := runServe(serveCmd, nil); err != nil {
		t.Fatalf("runServe() error = %v", err)
	}
	if !strings.Contains(out.String(), "Configuration valid") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunServe_InvalidLogLevel(t *testing.T) {
	newTestStore(t, "")
	serveFlags.dryRun = true
	serveFlags.logLevel = "chatty"

	capture(t, serveCmd)
	if err := runServe(serveCmd, nil); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	resetFlags(t)
	serveFlags.watch = false

	cfg := config.NewDefaultConfig()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Storage.Backend = "memory"
	cfg.Retention.Schedule = "0 3 * * *"

	logger, err := logging.New(logging.Config{Level: "error", Format: "text", Writer: io.Discard})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, logger) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve() did not return after cancel")
	}
}
