// Package observability provides OpenTelemetry tracing and Prometheus
// metrics for the derived-data jobs.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name used for the homegraph tracer.
	TracerName = "github.com/realagent/homegraph"
)

// TracingConfig configures the OpenTelemetry tracing.
type TracingConfig struct {
	// ServiceName is the name of the service (default: "homegraph")
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment is the deployment environment (dev, staging, prod)
	Environment string

	// OTLPEndpoint is the OTLP gRPC endpoint (e.g., "localhost:4317")
	// If empty, tracing is disabled.
	OTLPEndpoint string

	// SampleRate is the trace sampling rate (0.0 to 1.0, default: 1.0)
	SampleRate float64
}

// DefaultTracingConfig returns a default tracing configuration.
func DefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		ServiceName:    "homegraph",
		ServiceVersion: "0.1.0",
		Environment:    "development",
		SampleRate:     1.0,
	}
}

// TracerProvider wraps the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes OpenTelemetry tracing.
// Returns a no-op tracer if OTLPEndpoint is empty.
func InitTracing(ctx context.Context, cfg *TracingConfig) (*TracerProvider, error) {
	if cfg == nil {
		cfg = DefaultTracingConfig()
	}

	// If no endpoint, return no-op tracer
	if cfg.OTLPEndpoint == "" {
		return &TracerProvider{
			tracer: otel.Tracer(TracerName),
		}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(), // Use TLS in production
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	var sampler sdktrace.Sampler
	if cfg.SampleRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else if cfg.SampleRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}, nil
}

// Shutdown gracefully shuts down the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the underlying tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// SpanKind constants for homegraph operations.
const (
	SpanKindRun     = "run"
	SpanKindStore   = "store"
	SpanKindGraph   = "graph"
	SpanKindResolve = "resolve"
)

// StartRunSpan starts a span for a batch run ("reconcile" or "graph").
func StartRunSpan(ctx context.Context, job, runID string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("run.%s", job),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("homegraph.run.job", job),
			attribute.String("homegraph.run.id", runID),
			attribute.String("homegraph.span.kind", SpanKindRun),
		),
	)
	return ctx, span
}

// RecordReconcileResult records the outcome of a reconciliation run.
func RecordReconcileResult(span trace.Span, examined, updated, unchanged, invalid, failed int) {
	span.SetAttributes(
		attribute.Int("reconcile.examined", examined),
		attribute.Int("reconcile.updated", updated),
		attribute.Int("reconcile.unchanged", unchanged),
		attribute.Int("reconcile.invalid_coordinates", invalid),
		attribute.Int("reconcile.failed_updates", failed),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d updates failed", failed))
	}
}

// RecordGraphResult records the outcome of a similarity-graph run.
func RecordGraphResult(span trace.Span, comparisons, created, duplicate, failed int) {
	span.SetAttributes(
		attribute.Int("graph.comparisons", comparisons),
		attribute.Int("graph.edges_created", created),
		attribute.Int("graph.edges_duplicate", duplicate),
		attribute.Int("graph.failed_inserts", failed),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d inserts failed", failed))
	}
}

// StartStoreSpan starts a span for a store round trip.
func StartStoreSpan(ctx context.Context, backend, operation string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("store.%s", operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("homegraph.span.kind", SpanKindStore),
			attribute.String("store.backend", backend),
			attribute.String("store.operation", operation),
		),
	)
	return ctx, span
}

// RecordStoreMetrics records row counts and latency on a store span.
func RecordStoreMetrics(span trace.Span, rows int, duration time.Duration) {
	span.SetAttributes(
		attribute.Int("store.rows", rows),
		attribute.Int64("store.duration_ms", duration.Milliseconds()),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
