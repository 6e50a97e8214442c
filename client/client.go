package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/workerpool"
)

var (
	// ErrUnknownEndpoint is returned for a name no endpoint is registered under.
	ErrUnknownEndpoint = errors.New("client: unknown endpoint")
	// ErrDuplicateEndpoint is returned when a method name is already taken.
	ErrDuplicateEndpoint = errors.New("client: duplicate endpoint")
)

// Client is a set of named endpoints sharing one configuration and transport.
type Client struct {
	cfg       Config
	asyncName endpoint.Template
	log       *logger.Logger
	metrics   *observability.Metrics

	transport   httpclient.Transport
	ownedCloser interface{ Close(context.Context) error }
	auth        *httpclient.AuthConfig
	adapterOpts []httpclient.Option

	exec Executor
	pool *workerpool.Pool

	initial []namedSpec

	mu         sync.RWMutex
	endpoints  map[string]*endpoint.Spec
	order      []string
	asyncNames map[string]string
}

var _ component.Component = (*Client)(nil)

// New creates a client. Without WithDefaultTransport it sends requests
// through an httpclient.Adapter; with Config.Async.Enabled and no
// WithExecutor it starts a worker pool for CallAsync.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	asyncName, err := asyncNameTemplate(cfg.Async.MethodTemplate)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:        cfg,
		asyncName:  asyncName,
		endpoints:  make(map[string]*endpoint.Spec),
		asyncNames: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	base := c.log
	if base == nil {
		base = logger.Nop()
	}
	base = base.WithFields(logger.Fields(logger.FieldClient, cfg.Name))
	c.log = base.WithComponent("client")

	if c.transport == nil {
		adapter, err := c.newAdapter(base)
		if err != nil {
			return nil, err
		}
		c.transport = adapter
		c.ownedCloser = adapter
	}

	for _, ns := range c.initial {
		if err := c.Register(ns.name, ns.spec); err != nil {
			return nil, err
		}
	}
	c.initial = nil

	if c.exec == nil {
		if cfg.Async.Enabled {
			pool, err := workerpool.New(cfg.poolConfig(), base)
			if err != nil {
				return nil, err
			}
			c.pool = pool
			c.exec = NewPoolExecutor(pool)
		} else {
			c.exec = Direct
		}
	}
	return c, nil
}

func (c *Client) newAdapter(log *logger.Logger) (*httpclient.Adapter, error) {
	hc := httpclient.Config{
		Name: c.cfg.Name,
		Auth: c.auth,
	}
	if c.cfg.InsecureSkipVerify {
		hc.TLS = &httpclient.TLSConfig{SkipVerify: true}
	}
	opts := append([]httpclient.Option{httpclient.WithLogger(log)}, c.adapterOpts...)
	return httpclient.New(hc, opts...)
}

// Config returns the client configuration with defaults applied.
func (c *Client) Config() Config {
	return c.cfg
}

// Register adds spec under name. The name and its async method name must
// not collide with any registered method name.
func (c *Client) Register(name string, spec *endpoint.Spec) error {
	if name == "" {
		return errors.New("client: endpoint name must not be empty")
	}
	if spec == nil {
		return fmt.Errorf("client: endpoint %q: nil spec", name)
	}
	asyncName, err := c.asyncName.Bind(map[string]any{"name": name})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range []string{name, asyncName} {
		if _, ok := c.endpoints[n]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateEndpoint, n)
		}
		if _, ok := c.asyncNames[n]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateEndpoint, n)
		}
	}
	if name == asyncName {
		return fmt.Errorf("%w: %q is its own async name", ErrDuplicateEndpoint, name)
	}
	c.endpoints[name] = spec
	c.asyncNames[asyncName] = name
	c.order = append(c.order, name)
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Client) MustRegister(name string, spec *endpoint.Spec) {
	if err := c.Register(name, spec); err != nil {
		panic(err)
	}
}

// Endpoints returns the registered endpoint names in registration order.
func (c *Client) Endpoints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Endpoint returns the endpoint registered under name.
func (c *Client) Endpoint(name string) (*endpoint.Spec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.endpoints[name]
	return s, ok
}

// AsyncName returns the async method name for an endpoint name.
func (c *Client) AsyncName(name string) string {
	n, _ := c.asyncName.Bind(map[string]any{"name": name})
	return n
}

func (c *Client) lookup(name string) (*endpoint.Spec, error) {
	if s, ok := c.Endpoint(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
}

// MethodFunc is a synchronous endpoint method.
type MethodFunc func(ctx context.Context, args endpoint.Args, opts ...CallOption) (any, error)

// AsyncMethodFunc is an asynchronous endpoint method.
type AsyncMethodFunc func(ctx context.Context, args endpoint.Args, opts ...CallOption) (*workerpool.Future[any], error)

// Method returns the method for the named endpoint.
func (c *Client) Method(name string) (MethodFunc, error) {
	if _, err := c.lookup(name); err != nil {
		return nil, err
	}
	return func(ctx context.Context, args endpoint.Args, opts ...CallOption) (any, error) {
		return c.Call(ctx, name, args, opts...)
	}, nil
}

// AsyncMethod returns the asynchronous method for an endpoint, looked up by
// its async method name or its own name.
func (c *Client) AsyncMethod(name string) (AsyncMethodFunc, error) {
	c.mu.RLock()
	base, ok := c.asyncNames[name]
	c.mu.RUnlock()
	if !ok {
		base = name
	}
	if _, err := c.lookup(base); err != nil {
		return nil, err
	}
	return func(ctx context.Context, args endpoint.Args, opts ...CallOption) (*workerpool.Future[any], error) {
		return c.CallAsync(ctx, base, args, opts...)
	}, nil
}

// Name implements component.Component.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Start implements component.Component.
func (c *Client) Start(_ context.Context) error {
	c.log.Debug("client started", logger.Fields("endpoints", len(c.Endpoints()), "async", c.pool != nil))
	return nil
}

// Stop drains the async pool and releases idle connections of the default
// adapter.
func (c *Client) Stop(ctx context.Context) error {
	var errs []error
	if c.pool != nil {
		errs = append(errs, c.pool.Close(ctx))
	}
	if c.ownedCloser != nil {
		errs = append(errs, c.ownedCloser.Close(ctx))
	}
	return errors.Join(errs...)
}

// Health implements component.Component.
func (c *Client) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.pool != nil {
		if c.pool.Closed() {
			h.Status = component.StatusUnhealthy
			h.Message = "async pool closed"
		} else {
			h.Message = fmt.Sprintf("async pending=%d workers=%d", c.pool.Pending(), c.pool.Workers())
		}
	}
	return h
}
