// Package observability provides tracing initialization for the application.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the global tracer used for the application.
var Tracer trace.Tracer = otel.Tracer("meriter-api")

// TracingConfig holds configuration for initializing the tracer.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        bool
	Exporter       string // "stdout" or "otlp"
	OTLPEndpoint   string
	SamplerRatio   float64
}

// InitTracing initializes the OpenTelemetry tracer provider.
// Returns a shutdown function and an error.
func InitTracing(cfg TracingConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		Tracer = otel.Tracer(cfg.ServiceName)
		return func(_ context.Context) error { return nil }, nil
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "otlp":
		exporter, err = otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(), // Adjust as needed for production
		)
	case "stdout":
		fallthrough
	default:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create tracing exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerRatio))
	if cfg.SamplerRatio >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	Tracer = tp.Tracer(cfg.ServiceName)

	return tp.Shutdown, nil
}

// Span wraps an OpenTelemetry span and context for convenience.
type Span struct {
	span trace.Span
	ctx  context.Context
	name string
}

// NewSpan starts a new span and returns the wrapper and updated context.
func NewSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (*Span, context.Context) {
	s := &Span{name: name}
	ctx, span := Tracer.Start(ctx, name, opts...)
	s.span = span
	s.ctx = ctx
	return s, ctx
}

// AddAttributes sets attributes on the span.
func (s *Span) AddAttributes(attrs ...attribute.KeyValue) {
	if s.span != nil {
		s.span.SetAttributes(attrs...)
	}
}

// SetError records the error on the span.
func (s *Span) SetError(err error) {
	if s.span != nil && err != nil {
		s.span.RecordError(err)
	}
}

// End ends the span.
func (s *Span) End() {
	if s.span != nil {
		s.span.End()
	}
}

// RecordErrorInContext records the error on the span in ctx.
func RecordErrorInContext(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span != nil {
		span.RecordError(err)
	}
}
