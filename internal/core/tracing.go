package core

import (
	"context"
	"fmt"

	"migrator/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// NewTracerProvider installs a global OTLP/HTTP tracer provider. It returns
// nil when tracing is disabled, in which case otel's no-op provider stays in
// place.
func NewTracerProvider(ctx context.Context, config models.TracingConfiguration) (*sdktrace.TracerProvider, error) {
	if !config.Enabled {
		return nil, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", config.ServiceName),
		)),
	)
	otel.SetTracerProvider(provider)

	zap.L().Info("Tracing enabled",
		zap.String("endpoint", config.Endpoint),
		zap.String("service_name", config.ServiceName))
	return provider, nil
}

// ShutdownTracerProvider flushes and stops provider. A nil provider is a no-op.
func ShutdownTracerProvider(ctx context.Context, provider *sdktrace.TracerProvider) {
	if provider == nil {
		return
	}
	if err := provider.Shutdown(ctx); err != nil {
		zap.L().Error("Failed to shut down tracer provider", zap.Error(err))
	}
}
