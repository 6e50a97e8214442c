package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/restkit/codec"
	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/workerpool"
)

// prepared is a call that passed argument resolution and is ready to send.
type prepared struct {
	id        string
	name      string
	req       httpclient.Request
	transport httpclient.Transport
	timeout   time.Duration
}

// Call invokes the named endpoint and returns its decoded response: a JSON
// value, a string for text/* responses, []byte otherwise, or nil for
// 204 No Content.
func (c *Client) Call(ctx context.Context, name string, args endpoint.Args, opts ...CallOption) (any, error) {
	fut, err := c.invoke(ctx, Direct, name, args, opts, false)
	if err != nil {
		return nil, err
	}
	return fut.Result()
}

// CallAsync prepares the call on the calling goroutine and hands its
// dispatch to the client's Executor. Argument errors are returned
// immediately; request and response errors come from the future.
func (c *Client) CallAsync(ctx context.Context, name string, args endpoint.Args, opts ...CallOption) (*workerpool.Future[any], error) {
	return c.invoke(ctx, c.exec, name, args, opts, true)
}

func (c *Client) invoke(ctx context.Context, exec Executor, name string, args endpoint.Args, opts []CallOption, async bool) (*workerpool.Future[any], error) {
	p, err := c.prepare(name, args, newCallOptions(opts))
	if err != nil {
		return nil, err
	}
	if async && c.metrics != nil {
		c.metrics.RecordAsyncSubmit(ctx, c.cfg.Name, name)
	}
	fut, err := exec.Execute(ctx, func(ctx context.Context) (any, error) {
		return c.dispatch(ctx, p, async)
	})
	if err != nil {
		return nil, fmt.Errorf("client: submit %s: %w", name, err)
	}
	return fut, nil
}

// prepare resolves arguments and builds the request without any I/O.
func (c *Client) prepare(name string, args endpoint.Args, co callOptions) (*prepared, error) {
	spec, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	resolved, err := spec.Resolve(args)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(c.cfg.DefaultHeaders)+len(resolved.Headers)+2)
	if c.cfg.UserAgent != "" {
		headers["User-Agent"] = c.cfg.UserAgent
	}
	for k, v := range c.cfg.DefaultHeaders {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	var body []byte
	if resolved.HasBody {
		enc := spec.Encoder()
		body, err = enc.Encode(resolved.Body)
		if err != nil {
			return nil, fmt.Errorf("client: %s: encode body: %w", name, err)
		}
		headers["Content-Type"] = enc.ContentType()
	}
	for k, v := range resolved.Headers {
		headers[k] = v
	}
	for k, v := range co.headers {
		headers[k] = v
	}

	query := make([]httpclient.Param, 0, len(resolved.Query)+len(co.query))
	for _, q := range resolved.Query {
		query = append(query, httpclient.Param{Key: q.Key, Value: q.Value})
	}
	query = append(query, co.query...)

	p := &prepared{
		id:   uuid.NewString(),
		name: name,
		req: httpclient.Request{
			Method:  string(spec.Method()),
			Path:    httpclient.JoinURL(c.cfg.BaseURL, resolved.Path),
			Headers: headers,
			Query:   query,
			Body:    body,
		},
		transport: c.transport,
		timeout:   c.cfg.Timeout,
	}
	if co.transport != nil {
		p.transport = co.transport
	}
	if co.timeout != 0 {
		p.timeout = max(co.timeout, 0)
	}
	return p, nil
}

// dispatch sends a prepared request and interprets the response.
func (c *Client) dispatch(ctx context.Context, p *prepared, async bool) (any, error) {
	cc := observability.NewCallContext(c.cfg.Name, p.name, p.id, async, c.metrics)
	ctx, span := cc.Start(ctx)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log := c.log.WithFields(logger.Fields(
		logger.FieldEndpoint, p.name,
		logger.FieldCallID, p.id,
		logger.FieldAsync, async,
	))
	log.Debug("dispatching request", logger.Fields(
		logger.FieldHTTPMethod, p.req.Method,
		logger.FieldURL, p.req.Path,
	))

	resp, err := p.transport.Do(ctx, p.req)
	if err != nil {
		if !httpclient.IsTimeout(err) {
			cc.End(ctx, span, outcomeOf(err), 0, err)
			return nil, err
		}
		log.Debug("request timed out", logger.Fields(logger.FieldError, err.Error()))
		resp = httpclient.SynthesizeTimeout()
	}

	if httpErr := httpclient.ClassifyResponse(resp); httpErr != nil {
		cc.End(ctx, span, observability.OutcomeHTTPError, resp.StatusCode, httpErr)
		log.Debug("request failed", logger.DurationFields(logger.Fields(
			logger.FieldStatus, resp.StatusCode,
		), cc.Duration()))
		return nil, httpErr
	}

	if resp.StatusCode == http.StatusNoContent {
		cc.End(ctx, span, observability.OutcomeOK, resp.StatusCode, nil)
		return nil, nil
	}
	v, err := codec.DecodeResponse(resp.ContentType(), resp.Body)
	if err != nil {
		err = fmt.Errorf("client: %s: %w", p.name, err)
		cc.End(ctx, span, observability.OutcomeError, resp.StatusCode, err)
		return nil, err
	}

	cc.End(ctx, span, observability.OutcomeOK, resp.StatusCode, nil)
	log.Debug("request completed", logger.DurationFields(logger.Fields(
		logger.FieldStatus, resp.StatusCode,
	), cc.Duration()))
	return v, nil
}

func outcomeOf(err error) string {
	switch {
	case httpclient.IsConnection(err):
		return observability.OutcomeConnection
	case httpclient.IsTimeout(err):
		return observability.OutcomeTimeout
	default:
		return observability.OutcomeError
	}
}
