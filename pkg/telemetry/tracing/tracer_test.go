package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil, "test"); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if tracer.Enabled() {
		t.Error("expected tracer to be disabled")
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	span.End()
	if TraceID(ctx) != "" {
		t.Error("noop span should not carry a valid trace ID")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

func TestNew_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	cfg := &config.TracingConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		ServiceName: "readiness-test",
		Sampler:     SamplerAlways,
		Insecure:    true,
		Timeout:     100 * time.Millisecond,
	}

	tracer, err := New(cfg, "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !tracer.Enabled() {
		t.Error("expected tracer to be enabled")
	}

	ctx, span := tracer.Start(context.Background(), "operation")
	if TraceID(ctx) == "" {
		t.Error("expected a sampled span with a trace ID")
	}
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tracer.Shutdown(shutdownCtx)
}

func TestNew_InvalidSampler(t *testing.T) {
	_, err := New(&config.TracingConfig{Enabled: true, Sampler: "sometimes"}, "test")
	if err == nil {
		t.Error("expected error for unknown sampler")
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{SamplerRatio, -0.1, true},
		{"unknown", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("expected non-nil sampler")
			}
		})
	}
}

func TestExtract(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	ctx, span := provider.Tracer("test").Start(context.Background(), "client")
	defer span.End()

	headers := http.Header{}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(headers))
	if headers.Get("traceparent") == "" {
		t.Fatal("expected traceparent header")
	}

	extracted := Extract(context.Background(), headers)
	if got, want := TraceID(extracted), TraceID(ctx); got != want {
		t.Errorf("extracted trace ID %q, want %q", got, want)
	}
}

func TestSetStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, okSpan := provider.Tracer("test").Start(context.Background(), "ok")
	SetStatus(okSpan, nil)
	okSpan.End()

	_, errSpan := provider.Tracer("test").Start(context.Background(), "failed")
	SetStatus(errSpan, errors.New("boom"))
	errSpan.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected Ok status, got %v", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Error || len(spans[1].Events()) == 0 {
		t.Errorf("expected Error status with a recorded event, got %v", spans[1].Status())
	}
}
