// Package telemetry builds the OpenTelemetry tracer provider of the delegate
// runtime and the span attributes it records.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Endpoint describes an OTLP/HTTP trace collector.
type Endpoint struct {
	// Address is host:port of the collector. Tracing is off when empty.
	Address string
	// CACerts is a base64 encoded PEM bundle. Plain HTTP is used when empty.
	CACerts string
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string
}

// ShutdownFunc flushes and stops a tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider returns a tracer provider exporting to the endpoint, or a
// no-op provider when the endpoint has no address.
func NewTracerProvider(ctx context.Context, endpoint Endpoint) (trace.TracerProvider, ShutdownFunc, error) {
	if endpoint.Address == "" {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint.Address)}
	if endpoint.CACerts == "" {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		tlsConfig, err := getTLSConfig(endpoint.CACerts)
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsConfig))
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", endpoint.ServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
	)

	return tp, tp.Shutdown, nil
}
