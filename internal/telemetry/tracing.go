package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans emitted by this module.
const tracerName = "github.com/Azure/azure-resources-mcp"

// InitTracing configures the global tracer provider with an OTLP/gRPC
// exporter pointed at the given endpoint.
func (s *Service) InitTracing(ctx context.Context, endpoint string) error {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(s.serviceName),
			semconv.ServiceVersion(s.serviceVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	s.shutdownTracer = provider.Shutdown

	return nil
}

// Tracer returns the tracer used for tool invocation spans. It reflects the
// global provider, so spans are no-ops until InitTracing has run.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
