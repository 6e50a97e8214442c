package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/logger"
)

const tracerName = "github.com/kbukum/restkit/httpclient"

// Span attribute keys.
const (
	attrHTTPMethod     = "http.request.method"
	attrHTTPStatusCode = "http.response.status_code"
	attrURLFull        = "url.full"
	attrAdapterName    = "restkit.adapter"
)

// Adapter is the net/http implementation of Transport with auth, TLS and
// tracing.
type Adapter struct {
	httpClient *http.Client
	config     Config
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	log        *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client. TLS and Timeout from
// Config are not applied to a client supplied this way.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *Adapter) { a.httpClient = hc }
}

// WithTracerProvider sets the provider of the request spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Adapter) { a.tracer = tp.Tracer(tracerName) }
}

// WithPropagator sets the propagator injecting trace context into request
// headers. Defaults to the global propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(a *Adapter) { a.propagator = p }
}

// WithLogger sets the adapter logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		tracer: otel.Tracer(tracerName),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.propagator == nil {
		a.propagator = otel.GetTextMapPropagator()
	}
	a.log = a.log.WithComponent(cfg.Name)
	return a, nil
}

// Do sends req and returns the response for any status code. A timeout is
// returned as an ErrCodeTimeout *Error, any other transport failure as
// ErrCodeConnection.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, span := a.tracer.Start(ctx, "HTTP "+req.Method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String(attrHTTPMethod, httpReq.Method),
		attribute.String(attrURLFull, redactURL(httpReq.URL)),
		attribute.String(attrAdapterName, a.config.Name),
	)
	a.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		classified := classifyTransportError(ctx, err)
		span.RecordError(classified)
		span.SetStatus(codes.Error, classified.Code.String())
		a.log.Debug("request failed", logger.DurationFields(logger.Fields(
			logger.FieldHTTPMethod, httpReq.Method,
			logger.FieldURL, redactURL(httpReq.URL),
			logger.FieldError, classified.Error(),
		), time.Since(start)))
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		classified := classifyTransportError(ctx, fmt.Errorf("read response body: %w", err))
		span.RecordError(classified)
		span.SetStatus(codes.Error, classified.Code.String())
		return nil, classified
	}

	span.SetAttributes(attribute.Int(attrHTTPStatusCode, resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	a.log.Debug("response received", logger.DurationFields(logger.Fields(
		logger.FieldHTTPMethod, httpReq.Method,
		logger.FieldURL, redactURL(httpReq.URL),
		logger.FieldStatus, resp.StatusCode,
	), time.Since(start)))

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}, nil
}

// classifyTransportError separates timeouts from other transport failures.
// Cancellation by the caller is a connection error wrapping context.Canceled.
func classifyTransportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || IsTimeout(err) {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// ResolveURL joins the adapter base URL and path the way Do does.
func (a *Adapter) ResolveURL(path string) string {
	return JoinURL(a.config.BaseURL, path)
}

// JoinURL appends path to base with exactly one slash between them. An
// absolute http(s) path, or an empty base, is returned unchanged.
func JoinURL(base, path string) string {
	if base == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := a.ResolveURL(req.Path)
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + EncodeQuery(req.Query)
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	if err := auth.apply(httpReq); err != nil {
		return nil, NewValidationError(err.Error())
	}
	return httpReq, nil
}

// EncodeQuery encodes params in order as a querystring.
func EncodeQuery(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// redactURL drops userinfo from u for logs and spans.
func redactURL(u *url.URL) string {
	return u.Redacted()
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// Config returns the adapter's configuration.
func (a *Adapter) Config() Config {
	return a.config
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}
