package client

import (
	"net/http"
	"time"

	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
)

// Option configures a Client.
type Option func(*Client)

type namedSpec struct {
	name string
	spec *endpoint.Spec
}

// WithDefaultTransport replaces the default net/http adapter for every call.
func WithDefaultTransport(t httpclient.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithAuth sets the authentication applied by the default adapter.
func WithAuth(auth *httpclient.AuthConfig) Option {
	return func(c *Client) { c.auth = auth }
}

// WithAdapterOptions passes options to the default adapter.
func WithAdapterOptions(opts ...httpclient.Option) Option {
	return func(c *Client) { c.adapterOpts = append(c.adapterOpts, opts...) }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records call metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithExecutor sets the execution strategy of CallAsync, overriding the
// one derived from Config.Async.
func WithExecutor(e Executor) Option {
	return func(c *Client) { c.exec = e }
}

// WithEndpoint registers spec under name when the client is created.
func WithEndpoint(name string, spec *endpoint.Spec) Option {
	return func(c *Client) { c.initial = append(c.initial, namedSpec{name, spec}) }
}

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	transport httpclient.Transport
	headers   map[string]string
	query     []httpclient.Param
	timeout   time.Duration
}

func newCallOptions(opts []CallOption) callOptions {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}
	return co
}

// WithTransport sends this call through t instead of the client transport.
func WithTransport(t httpclient.Transport) CallOption {
	return func(o *callOptions) { o.transport = t }
}

// WithHeaders adds headers to this call. They override every other header
// source.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.headers[http.CanonicalHeaderKey(k)] = v
		}
	}
}

// WithQuery appends a querystring parameter after the endpoint's own.
func WithQuery(key, value string) CallOption {
	return func(o *callOptions) {
		o.query = append(o.query, httpclient.Param{Key: key, Value: value})
	}
}

// WithTimeout bounds this call instead of Config.Timeout. Zero or negative
// disables the timeout for this call.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		if d <= 0 {
			d = -1
		}
		o.timeout = d
	}
}
