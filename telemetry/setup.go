/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of the tracer returned by Setup.
const TracerName = "chainguard.dev/mathagent/telemetry"

var (
	mu        sync.Mutex
	installed *sdktrace.TracerProvider
)

type options struct {
	serviceName  string
	lookuper     envconfig.Lookuper
	exporterOpts []otlptracehttp.Option
}

// Option configures Setup.
type Option func(*options)

// WithServiceName sets the service.name resource attribute. Defaults to "math-agent".
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// WithLookuper replaces the process environment as the source of unset Config fields.
func WithLookuper(l envconfig.Lookuper) Option {
	return func(o *options) {
		o.lookuper = l
	}
}

// WithExporterOptions appends options to the OTLP/HTTP exporter, after the
// endpoint and headers derived from Config.
func WithExporterOptions(opts ...otlptracehttp.Option) Option {
	return func(o *options) {
		o.exporterOpts = append(o.exporterOpts, opts...)
	}
}

// Setup exports spans to the collector described by cfg and installs the
// resulting provider as the process-wide tracer provider.
//
// Fields left empty in cfg are read from the environment. Without an API key
// Setup returns ErrMissingAPIKey and installs nothing.
//
// Calling Setup again replaces the installed provider. The previous provider
// is not shut down, so spans still buffered in its batch processor are not
// flushed unless the caller shuts it down.
func Setup(ctx context.Context, cfg Config, opts ...Option) (trace.Tracer, error) {
	o := options{
		serviceName: "math-agent",
		lookuper:    envconfig.OsLookuper(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := cfg.Resolve(ctx, o.lookuper)
	if err != nil {
		return nil, err
	}

	exporterOpts := append([]otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(cfg.Endpoint()),
		otlptracehttp.WithHeaders(cfg.Headers()),
	}, o.exporterOpts...)
	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", o.serviceName),
		)),
	)

	log := clog.FromContext(ctx)
	mu.Lock()
	if installed != nil {
		log.Warn("Replacing installed tracer provider; spans buffered by the previous provider may be lost")
	}
	installed = provider
	mu.Unlock()

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warnf("opentelemetry: %v", err)
	}))

	log.With("endpoint", cfg.Endpoint()).
		With("project", cfg.ProjectID).
		Info("Tracing configured")

	return provider.Tracer(TracerName), nil
}

// Installed returns the provider installed by the most recent Setup, or nil.
func Installed() *sdktrace.TracerProvider {
	mu.Lock()
	defer mu.Unlock()
	return installed
}

// Shutdown flushes buffered spans and shuts down the installed provider.
// It is a no-op when nothing is installed.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	provider := installed
	installed = nil
	mu.Unlock()

	if provider == nil {
		return nil
	}
	if err := provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down tracer provider: %w", err)
	}
	return nil
}
