package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "default timeout", timeout: 0, expectedTimeout: 5 * time.Second},
		{name: "custom timeout", timeout: 10 * time.Second, expectedTimeout: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout, "test")
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.Checks()) != 0 {
				t.Errorf("expected 0 checks, got %d", len(checker.Checks()))
			}
		})
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name:       "healthy storage",
			checks:     map[string]CheckFunc{"storage": PingCheck(fakePinger{})},
			wantStatus: StatusReady,
		},
		{
			name: "storage down",
			checks: map[string]CheckFunc{
				"storage": PingCheck(fakePinger{err: errors.New("connection refused")}),
				"config":  func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second, "test")
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, status.Status)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("expected %d results, got %d", len(tt.checks), len(status.Checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20*time.Millisecond, "test")
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(500 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())

	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != "health check timeout" {
		t.Errorf("expected timeout result, got %+v", result)
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second, "1.2.3")

	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != StatusOK || body.Version != "1.2.3" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
	}{
		{name: "ready", wantCode: http.StatusOK},
		{name: "degraded", pingErr: errors.New("database is locked"), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second, "test")
			checker.RegisterCheck("storage", PingCheck(fakePinger{err: tt.pingErr}))

			rec := httptest.NewRecorder()
			checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
		})
	}
}

func TestReadinessHandler_Head(t *testing.T) {
	checker := New(time.Second, "test")

	rec := httptest.NewRecorder()
	checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodHead, "/ready", nil))

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD, got %q", rec.Body.String())
	}
}
