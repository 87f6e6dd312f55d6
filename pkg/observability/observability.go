// Package observability wires OpenTelemetry tracing and metrics for
// factory resolution and source creation.
//
// Until Init is called, spans and instruments go to the OpenTelemetry
// global no-op providers.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/ajitpratap0/tablefactory"

	// ValidationDurationMetric is the histogram fed by RecordValidation.
	ValidationDurationMetric = "tablefactory.options.validation.duration"
)

// Config contains tracing and metrics configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Exporter is "stdout" or "none".
	Exporter     string
	Writer       io.Writer
	SamplingRate float64
	PrettyPrint  bool
	// MetricReader overrides the periodic stdout metric reader. It also
	// enables metrics when Exporter is "none".
	MetricReader sdkmetric.Reader
}

var (
	mu            sync.Mutex
	provider      *sdktrace.TracerProvider
	meterProvider *sdkmetric.MeterProvider

	validationDuration metric.Float64Histogram
)

// Init installs global tracer and meter providers built from cfg.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	switch cfg.Exporter {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	if cfg.Exporter == "stdout" {
		if err := initTracer(cfg, res); err != nil {
			return err
		}
	}

	reader := cfg.MetricReader
	if reader == nil && cfg.Exporter == "stdout" {
		exporterOpts := []stdoutmetric.Option{}
		if cfg.Writer != nil {
			exporterOpts = append(exporterOpts, stdoutmetric.WithWriter(cfg.Writer))
		}
		if cfg.PrettyPrint {
			exporterOpts = append(exporterOpts, stdoutmetric.WithPrettyPrint())
		}
		exporter, err := stdoutmetric.New(exporterOpts...)
		if err != nil {
			return fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter)
	}
	if reader == nil {
		return nil
	}

	meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	h, err := newValidationHistogram(meterProvider.Meter(instrumentationName))
	if err != nil {
		return fmt.Errorf("failed to create validation histogram: %w", err)
	}
	validationDuration = h
	return nil
}

func initTracer(cfg Config, res *resource.Resource) error {
	exporterOpts := []stdouttrace.Option{}
	if cfg.Writer != nil {
		exporterOpts = append(exporterOpts, stdouttrace.WithWriter(cfg.Writer))
	}
	if cfg.PrettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.SamplingRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(provider)
	return nil
}

// Shutdown flushes and stops the providers installed by Init.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	var errs []error
	if provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer: %w", err))
		}
		provider = nil
	}
	if meterProvider != nil {
		if err := meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter: %w", err))
		}
		meterProvider = nil
	}
	validationDuration = nil
	return errors.Join(errs...)
}

// Tracer returns the package tracer from the current global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Meter returns the package meter from the current global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// StartSpan starts a span carrying the given attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordValidation observes how long option validation took for a factory.
func RecordValidation(ctx context.Context, identifier string, d time.Duration, err error) {
	h := validationHistogram()
	if h == nil {
		return
	}
	h.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("identifier", identifier),
		attribute.Bool("success", err == nil),
	))
}

func validationHistogram() metric.Float64Histogram {
	mu.Lock()
	defer mu.Unlock()

	if validationDuration == nil {
		if h, err := newValidationHistogram(Meter()); err == nil {
			validationDuration = h
		}
	}
	return validationDuration
}

func newValidationHistogram(m metric.Meter) (metric.Float64Histogram, error) {
	return m.Float64Histogram(
		ValidationDurationMetric,
		metric.WithDescription("Duration of option validation"),
		metric.WithUnit("s"),
	)
}
