package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "biodex-pubsub"

// TracingConfig controls event bus tracing.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	ZipkinURL   string
	Version     string
}

// TracingConfigFromEnv reads TRACING_ENABLED, TRACING_SERVICE_NAME and
// TRACING_ZIPKIN_URL. Tracing is off unless explicitly enabled.
func TracingConfigFromEnv(version string) TracingConfig {
	cfg := TracingConfig{
		ServiceName: "biodex",
		ZipkinURL:   "http://localhost:9411/api/v2/spans",
		Version:     version,
	}
	if v, err := strconv.ParseBool(os.Getenv("TRACING_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	if v := os.Getenv("TRACING_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("TRACING_ZIPKIN_URL"); v != "" {
		cfg.ZipkinURL = v
	}
	return cfg
}

// SetupTracing returns the tracer for the bus and a shutdown func. When
// tracing is disabled the tracer is a no-op.
func SetupTracing(ctx context.Context, cfg TracingConfig) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider().Tracer(tracerName), func(context.Context) error { return nil }, nil
	}

	exporter, err := zipkin.New(cfg.ZipkinURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create zipkin exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create tracing resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	slog.InfoContext(ctx, "Event bus tracing enabled", "event", "tracing_enabled", "zipkin_url", cfg.ZipkinURL)

	return tp.Tracer(tracerName), tp.Shutdown, nil
}
