// Package observability installs the OpenTelemetry trace and metric
// providers and the order instruments recorded on them.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	stdoutmetric "go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/config"
)

const (
	serviceVersion  = "0.3.0"
	shutdownTimeout = 10 * time.Second
	exportTimeout   = 10 * time.Second
	stdoutInterval  = 30 * time.Second
)

// Module provides the Manager and the order instruments. The manager is
// always built so its providers are installed in every process.
var Module = fx.Options(
	fx.Provide(NewManager, NewOrderMetrics),
	fx.Invoke(func(*Manager) {}),
)

// Manager owns the trace and meter providers for the process.
type Manager struct {
	cfg            config.Observability
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metricsHandler http.Handler
}

// NewManager builds the providers enabled in cfg. They become the otel
// globals on start and are flushed on stop.
func NewManager(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*Manager, error) {
	obs := cfg.Observability
	log := logger.With(zap.String("component", "observability"))

	res, err := sdkresource.New(context.Background(),
		sdkresource.WithFromEnv(),
		sdkresource.WithHost(),
		sdkresource.WithAttributes(
			semconv.ServiceName(obs.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("service.environment", obs.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	m := &Manager{cfg: obs}
	if obs.EnableTracing {
		if m.tracerProvider, err = newTracerProvider(obs, res, log); err != nil {
			return nil, err
		}
	}
	if obs.EnableMetrics {
		if m.meterProvider, m.metricsHandler, err = newMeterProvider(obs, res, log); err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			m.install()
			return nil
		},
		OnStop: m.Shutdown,
	})
	return m, nil
}

func (m *Manager) install() {
	if m.tracerProvider != nil {
		otel.SetTracerProvider(m.tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}
	if m.meterProvider != nil {
		otel.SetMeterProvider(m.meterProvider)
	}
}

// Shutdown flushes and stops both providers.
func (m *Manager) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var err error
	if m.tracerProvider != nil {
		err = errors.Join(err, m.tracerProvider.Shutdown(ctx))
	}
	if m.meterProvider != nil {
		err = errors.Join(err, m.meterProvider.Shutdown(ctx))
	}
	return err
}

// TracingEnabled reports whether spans are exported.
func (m *Manager) TracingEnabled() bool {
	return m.tracerProvider != nil
}

// MetricsEnabled reports whether instruments are exported.
func (m *Manager) MetricsEnabled() bool {
	return m.meterProvider != nil
}

// MetricsHandler serves the prometheus registry; nil for other exporters.
func (m *Manager) MetricsHandler() http.Handler {
	return m.metricsHandler
}

func (m *Manager) PrometheusPath() string {
	return m.cfg.PrometheusPath
}

// newTracerProvider returns nil when the exporter is "none" or unknown.
func newTracerProvider(obs config.Observability, res *sdkresource.Resource, log *zap.Logger) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch obs.TraceExporter {
	case "none":
		return nil, nil
	case "stdout":
		// stdout carries CLI output
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(os.Stderr))
	case "otlp":
		if obs.TraceEndpoint == "" {
			return nil, fmt.Errorf("OBS_OTLP_ENDPOINT must be set for otlp exporter")
		}
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(obs.TraceEndpoint)}
		if obs.TraceInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		exporter, err = otlptracegrpc.New(ctx, opts...)
	default:
		log.Warn("unsupported trace exporter; tracing disabled", zap.String("exporter", obs.TraceExporter))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("trace exporter %s: %w", obs.TraceExporter, err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// newMeterProvider returns a nil provider when the exporter is "none" or
// unknown. The handler is only set for prometheus.
func newMeterProvider(obs config.Observability, res *sdkresource.Resource, log *zap.Logger) (*sdkmetric.MeterProvider, http.Handler, error) {
	switch obs.MetricsExporter {
	case "none":
		return nil, nil, nil
	case "prometheus":
		// private registry, so building the app twice in one process does not
		// register the same collectors twice
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
		}
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter), sdkmetric.WithResource(res))
		return provider, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}), nil
	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint(), stdoutmetric.WithWriter(os.Stderr))
		if err != nil {
			return nil, nil, fmt.Errorf("stdout metric exporter: %w", err)
		}
		reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(stdoutInterval))
		return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res)), nil, nil
	default:
		log.Warn("unsupported metrics exporter; metrics disabled", zap.String("exporter", obs.MetricsExporter))
		return nil, nil, nil
	}
}
