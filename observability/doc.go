// Package observability provides OpenTelemetry tracing and metrics for the
// benchmark pipeline.
//
// Telemetry is optional. When disabled, spans are no-ops and metric
// instruments come from the global (no-op) meter, so callers never need to
// check whether it is enabled.
//
//	tel, err := observability.Setup(ctx, cfg, observability.Service{Name: "vpgbench"})
//	defer tel.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTrial)
//	defer span.End()
//	tel.Metrics.RecordTrial(ctx, "family", "ok", elapsed)
package observability
