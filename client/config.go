package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/validation"
	"github.com/kbukum/restkit/version"
	"github.com/kbukum/restkit/workerpool"
)

const (
	// DefaultName names clients that do not set one.
	DefaultName = "restkit"
	// DefaultAsyncMethodTemplate derives async method names from endpoint names.
	DefaultAsyncMethodTemplate = "async_{name}"
)

// Config is the configuration shared by every call of a client.
type Config struct {
	// Name identifies the client in logs, spans and metrics.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to every bound endpoint path.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,http_url"`

	// DefaultHeaders are sent with every request. Endpoint headers and
	// per-call headers override them.
	DefaultHeaders map[string]string `yaml:"default_headers" mapstructure:"default_headers"`

	// Timeout bounds each request unless a call sets its own. Zero means
	// no client-side timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header. Defaults to restkit/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// InsecureSkipVerify disables TLS certificate verification on the
	// default transport.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`

	// Async configures the worker pool behind CallAsync.
	Async AsyncConfig `yaml:"async" mapstructure:"async"`
}

// AsyncConfig configures asynchronous calls.
type AsyncConfig struct {
	// Enabled runs CallAsync dispatches on a worker pool. When disabled,
	// CallAsync dispatches inline and returns a completed future.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Workers is the pool size.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	// QueueSize is the number of dispatches that may wait for a worker.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" validate:"gte=0"`
	// MethodTemplate names async methods; {name} is the endpoint name.
	MethodTemplate string `yaml:"method_template" mapstructure:"method_template"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.Async.MethodTemplate == "" {
		c.Async.MethodTemplate = DefaultAsyncMethodTemplate
	}
	if c.Async.Workers == 0 {
		c.Async.Workers = workerpool.DefaultWorkers
	}
	if c.Async.QueueSize == 0 {
		c.Async.QueueSize = workerpool.DefaultQueueSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if _, err := asyncNameTemplate(c.Async.MethodTemplate); err != nil {
		return err
	}
	return nil
}

func (c *Config) poolConfig() workerpool.Config {
	return workerpool.Config{
		Name:      c.Name + "-async",
		Workers:   c.Async.Workers,
		QueueSize: c.Async.QueueSize,
	}
}

// asyncNameTemplate parses a method name template. It must reference
// {name} and nothing else.
func asyncNameTemplate(s string) (endpoint.Template, error) {
	tmpl, err := endpoint.ParseTemplate(s)
	if err != nil {
		return endpoint.Template{}, fmt.Errorf("client: async method template: %w", err)
	}
	names := tmpl.Names()
	if len(names) != 1 || names[0] != "name" {
		return endpoint.Template{}, fmt.Errorf("client: async method template %q must use exactly {name}, got {%s}",
			s, strings.Join(names, "}, {"))
	}
	return tmpl, nil
}
