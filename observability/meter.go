package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetShortVersion(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP/HTTP meter provider as the otel global.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, config MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	if log != nil {
		log.Info("meter initialized", logger.Fields(
			"service", config.ServiceName,
			"endpoint", config.Endpoint,
			"interval", config.Interval.String(),
		))
	}
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricCallsTotal   = "restkit.client.calls"
	MetricCallDuration = "restkit.client.call.duration"
	MetricCallsActive  = "restkit.client.calls.active"
	MetricAsyncSubmits = "restkit.client.async.submitted"
)

// Metrics holds the instruments recorded by restkit clients.
type Metrics struct {
	callsTotal   metric.Int64Counter
	callDuration metric.Float64Histogram
	callsActive  metric.Int64UpDownCounter
	asyncSubmits metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callsTotal, err := meter.Int64Counter(MetricCallsTotal,
		metric.WithDescription("Completed endpoint calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCallsTotal, err)
	}

	callDuration, err := meter.Float64Histogram(MetricCallDuration,
		metric.WithDescription("Duration of endpoint calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricCallDuration, err)
	}

	callsActive, err := meter.Int64UpDownCounter(MetricCallsActive,
		metric.WithDescription("Endpoint calls currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricCallsActive, err)
	}

	asyncSubmits, err := meter.Int64Counter(MetricAsyncSubmits,
		metric.WithDescription("Calls submitted to the async worker pool"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAsyncSubmits, err)
	}

	return &Metrics{
		callsTotal:   callsTotal,
		callDuration: callDuration,
		callsActive:  callsActive,
		asyncSubmits: asyncSubmits,
	}, nil
}

// RecordCallStart increments the in-flight call count.
func (m *Metrics) RecordCallStart(ctx context.Context, client, endpoint string) {
	m.callsActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("endpoint", endpoint),
	))
}

// RecordCallEnd decrements the in-flight count and records the completed call.
func (m *Metrics) RecordCallEnd(ctx context.Context, client, endpoint, outcome string, duration time.Duration) {
	base := []attribute.KeyValue{
		attribute.String("client", client),
		attribute.String("endpoint", endpoint),
	}
	m.callsActive.Add(ctx, -1, metric.WithAttributes(base...))
	m.callsTotal.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String("outcome", outcome))...))
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
}

// RecordAsyncSubmit counts a call handed to the worker pool.
func (m *Metrics) RecordAsyncSubmit(ctx context.Context, client, endpoint string) {
	m.asyncSubmits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("endpoint", endpoint),
	))
}
