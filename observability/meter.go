package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/vpgbench/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the pipeline. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	stageTotal      metric.Int64Counter
	stageDuration   metric.Float64Histogram
	trialTotal      metric.Int64Counter
	trialDuration   metric.Float64Histogram
	processFailures metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	stageTotal, err := meter.Int64Counter("stage.total",
		metric.WithDescription("Pipeline stages by outcome (completed, skipped, failed, aborted)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.total counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("stage.duration",
		metric.WithDescription("Duration of executed pipeline stages in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage.duration histogram: %w", err)
	}

	trialTotal, err := meter.Int64Counter("trial.total",
		metric.WithDescription("Solver trials by variant and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trial.total counter: %w", err)
	}

	trialDuration, err := meter.Float64Histogram("trial.duration",
		metric.WithDescription("Wall-clock duration of solver trials in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trial.duration histogram: %w", err)
	}

	processFailures, err := meter.Int64Counter("process.failure.total",
		metric.WithDescription("External tool invocations that failed, by binary and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.failure.total counter: %w", err)
	}

	return &Metrics{
		stageTotal:      stageTotal,
		stageDuration:   stageDuration,
		trialTotal:      trialTotal,
		trialDuration:   trialDuration,
		processFailures: processFailures,
	}, nil
}

// RecordStage records the outcome of one pipeline stage. Duration is only
// recorded for stages that actually ran.
func (m *Metrics) RecordStage(ctx context.Context, caseName, stage, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("case", caseName),
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
	if duration > 0 {
		m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("stage", stage),
		))
	}
}

// RecordTrial records one solver trial.
func (m *Metrics) RecordTrial(ctx context.Context, variant, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.trialTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("variant", variant),
		attribute.String("status", status),
	))
	m.trialDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("variant", variant),
	))
}

// RecordProcessFailure records a failed external tool invocation.
func (m *Metrics) RecordProcessFailure(ctx context.Context, binary, code string) {
	if m == nil {
		return
	}
	m.processFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("binary", binary),
		attribute.String("code", code),
	))
}
