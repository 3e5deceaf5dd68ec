package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("vpgbench")

	if cfg.ServiceName != "vpgbench" {
		t.Errorf("expected ServiceName 'vpgbench', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("vpgbench")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordStage(ctx, "elevator.mcrl2", "compile", "completed", 2*time.Second)
	metrics.RecordStage(ctx, "elevator.mcrl2", "generate", "skipped", 0)
	metrics.RecordTrial(ctx, "family", "ok", 1500*time.Millisecond)
	metrics.RecordProcessFailure(ctx, "merc-vpg", "PROCESS_FAILED")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordStage(ctx, "c", "s", "completed", time.Second)
	m.RecordTrial(ctx, "product", "ok", time.Second)
	m.RecordProcessFailure(ctx, "lps2lts", "TIMEOUT")
}

func TestSetupDisabled(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, Config{}, Service{Name: "vpgbench"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tel.Enabled() {
		t.Error("telemetry must be disabled")
	}
	if tel.Metrics == nil {
		t.Fatal("metrics must be usable while disabled")
	}
	tel.Metrics.RecordTrial(ctx, "family", "ok", time.Second)
	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestNilTelemetryShutdown(t *testing.T) {
	var tel *Telemetry
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("nil shutdown: %v", err)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), SpanTrial)
	defer span.End()
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected span in context")
	}
}

func TestSpanAttributesAndError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), SpanStage)
	SetSpanAttribute(ctx, AttrStage, "compile")
	SetSpanAttribute(ctx, AttrTrial, 3)
	SetSpanAttribute(ctx, AttrExitCode, int64(2))
	SetSpanAttribute(ctx, "ratio", 0.5)
	SetSpanAttribute(ctx, "forced", true)
	SetSpanAttribute(ctx, "inputs", []string{"a.lps", "FD"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, fmt.Errorf("mcrl22lps exited with code 1"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name != SpanStage {
		t.Errorf("expected span %q, got %q", SpanStage, got.Name)
	}
	if got.Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status.Code)
	}
	if len(got.Attributes) != 6 {
		t.Errorf("expected 6 attributes, got %d", len(got.Attributes))
	}
	if len(got.Events) != 1 {
		t.Errorf("expected 1 recorded error event, got %d", len(got.Events))
	}
}

func TestSetSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span"))
}

func TestNewResource(t *testing.T) {
	res, err := newResource("vpgbench", "v1.0.0", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "vpgbench" {
			found = true
		}
	}
	if !found {
		t.Error("service.name attribute missing")
	}
}

func TestInitTracerSamplingRates(t *testing.T) {
	for _, rate := range []float64{1.0, 0.0, 0.5} {
		t.Run(fmt.Sprint(rate), func(t *testing.T) {
			cfg := DefaultTracerConfig("test")
			cfg.SampleRate = rate
			tp, err := InitTracer(context.Background(), &cfg)
			if err != nil {
				t.Fatalf("InitTracer: %v", err)
			}
			_ = tp.Shutdown(context.Background())
		})
	}
}
