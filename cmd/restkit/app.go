package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/restkit/catalog"
	"github.com/kbukum/restkit/client"
	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
)

const serviceName = "restkit"

// appConfig is the restkit CLI configuration.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// Catalog is the default catalogue path.
	Catalog string `yaml:"catalog" mapstructure:"catalog"`
	// Client overrides the catalogue's client section.
	Client client.Config `yaml:"client" mapstructure:"client"`

	Tracing tracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics metricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type tracingConfig struct {
	Enabled                    bool `yaml:"enabled" mapstructure:"enabled"`
	observability.TracerConfig `yaml:",inline" mapstructure:",squash"`
}

type metricsConfig struct {
	Enabled                   bool `yaml:"enabled" mapstructure:"enabled"`
	observability.MeterConfig `yaml:",inline" mapstructure:",squash"`
}

func (c *appConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()

	td := observability.DefaultTracerConfig(c.Name)
	td.Environment = c.Environment
	t := &c.Tracing.TracerConfig
	t.ServiceName = cmp.Or(t.ServiceName, td.ServiceName)
	t.ServiceVersion = cmp.Or(t.ServiceVersion, td.ServiceVersion)
	t.Environment = cmp.Or(t.Environment, td.Environment)
	if t.Endpoint == "" {
		t.Endpoint = td.Endpoint
		t.Insecure = td.Insecure
	}
	if t.SampleRate == 0 {
		t.SampleRate = td.SampleRate
	}

	md := observability.DefaultMeterConfig(c.Name)
	md.Environment = c.Environment
	m := &c.Metrics.MeterConfig
	m.ServiceName = cmp.Or(m.ServiceName, md.ServiceName)
	m.ServiceVersion = cmp.Or(m.ServiceVersion, md.ServiceVersion)
	m.Environment = cmp.Or(m.Environment, md.Environment)
	if m.Endpoint == "" {
		m.Endpoint = md.Endpoint
		m.Insecure = md.Insecure
	}
	m.Interval = cmp.Or(m.Interval, md.Interval)
}

// app holds everything a subcommand needs.
type app struct {
	cfg        appConfig
	log        *logger.Logger
	catalog    *catalog.Catalog
	components *component.Registry
}

// loadApp reads configuration, builds the logger and loads the catalogue.
func loadApp(flags *globalFlags) (*app, error) {
	var cfg appConfig
	var opts []config.LoaderOption
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	path := cfg.Catalog
	if flags.catalog != "" {
		path = flags.catalog
	}
	if path == "" {
		return nil, errors.New("no catalogue given: use --catalog or set 'catalog' in the config")
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	cat.Client = mergeClientConfig(cat.Client, cfg.Client)
	if flags.baseURL != "" {
		cat.Client.BaseURL = flags.baseURL
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	return &app{
		cfg:        cfg,
		log:        log,
		catalog:    cat,
		components: component.NewRegistry(log),
	}, nil
}

// mergeClientConfig overlays the non-zero fields of override on base.
func mergeClientConfig(base, override client.Config) client.Config {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	if len(override.DefaultHeaders) > 0 {
		out.DefaultHeaders = maps.Clone(base.DefaultHeaders)
		if out.DefaultHeaders == nil {
			out.DefaultHeaders = make(map[string]string, len(override.DefaultHeaders))
		}
		maps.Copy(out.DefaultHeaders, override.DefaultHeaders)
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	if override.UserAgent != "" {
		out.UserAgent = override.UserAgent
	}
	if override.InsecureSkipVerify {
		out.InsecureSkipVerify = true
	}
	if override.Async.Enabled {
		out.Async.Enabled = true
	}
	if override.Async.Workers != 0 {
		out.Async.Workers = override.Async.Workers
	}
	if override.Async.QueueSize != 0 {
		out.Async.QueueSize = override.Async.QueueSize
	}
	if override.Async.MethodTemplate != "" {
		out.Async.MethodTemplate = override.Async.MethodTemplate
	}
	return out
}

// start builds the client and starts it after the telemetry providers it
// reports to. The returned stop function shuts everything down in reverse.
func (a *app) start(ctx context.Context, async bool) (*client.Client, func(), error) {
	opts := []client.Option{client.WithLogger(a.log)}

	if a.cfg.Tracing.Enabled {
		var tp *sdktrace.TracerProvider
		err := a.components.Register(component.Func{
			ID: "tracer",
			StartFn: func(ctx context.Context) (err error) {
				tp, err = observability.InitTracer(ctx, a.cfg.Tracing.TracerConfig, a.log)
				return err
			},
			StopFn: func(ctx context.Context) error { return tp.Shutdown(ctx) },
		})
		if err != nil {
			return nil, nil, err
		}
	}
	if a.cfg.Metrics.Enabled {
		var mp *sdkmetric.MeterProvider
		err := a.components.Register(component.Func{
			ID: "meter",
			StartFn: func(ctx context.Context) (err error) {
				mp, err = observability.InitMeter(ctx, a.cfg.Metrics.MeterConfig, a.log)
				return err
			},
			StopFn: func(ctx context.Context) error { return mp.Shutdown(ctx) },
		})
		if err != nil {
			return nil, nil, err
		}
		// Instruments from the global meter follow the provider installed on start.
		metrics, err := observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, client.WithMetrics(metrics))
	}

	if async {
		a.catalog.Client.Async.Enabled = true
	}
	c, err := a.catalog.Build(opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := a.components.Register(c); err != nil {
		_ = c.Stop(ctx)
		return nil, nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), component.DefaultStopTimeout)
		defer cancel()
		if err := a.components.StopAll(ctx); err != nil {
			a.log.Warn("shutdown incomplete", logger.Fields(logger.FieldError, err.Error()))
		}
	}
	if err := a.components.StartAll(ctx); err != nil {
		stop()
		return nil, nil, err
	}
	return c, stop, nil
}

// callTimeout bounds a synchronous call, or the submission of an async one.
func callTimeout(c client.Config) time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return c.Timeout + time.Second
}
