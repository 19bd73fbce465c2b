// Package telemetry installs the global OpenTelemetry tracer provider used by the
// otelhttp transport of the api client.
package telemetry

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc flushes pending spans
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup exports spans to an OTLP gRPC collector at endpoint. With no endpoint the global
// provider is left alone and spans are dropped.
func Setup(ctx context.Context, serviceName, endpoint string, insecure bool, logger zerolog.Logger) (ShutdownFunc, error) {
	if endpoint == "" {
		logger.Debug().Msg("no OTLP endpoint configured, spans are not exported")
		return noop, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return noop, errors.Wrap(err, "[telemetry Setup] exporter")
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Warn().Err(err).Msg("otel resource incomplete")
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info().Str("endpoint", endpoint).Msg("exporting traces")
	return provider.Shutdown, nil
}
