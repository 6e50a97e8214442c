package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Call outcomes reported on spans and metrics.
const (
	OutcomeOK         = "ok"
	OutcomeHTTPError  = "http_error"
	OutcomeTimeout    = "timeout"
	OutcomeConnection = "connection"
	OutcomeError      = "error"
)

// CallContext tracks one endpoint call from dispatch to result.
type CallContext struct {
	Client    string
	Endpoint  string
	CallID    string
	Async     bool
	StartTime time.Time
	Metrics   *Metrics
}

// NewCallContext creates a call context. If metrics is nil, metric
// recording is skipped.
func NewCallContext(client, endpoint, callID string, async bool, metrics *Metrics) *CallContext {
	return &CallContext{
		Client:    client,
		Endpoint:  endpoint,
		CallID:    callID,
		Async:     async,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type callContextKey struct{}

// WithCallContext stores a CallContext in the context.
func WithCallContext(ctx context.Context, cc *CallContext) context.Context {
	return context.WithValue(ctx, callContextKey{}, cc)
}

// CallContextFromContext retrieves the CallContext from context, or nil.
func CallContextFromContext(ctx context.Context) *CallContext {
	if cc, ok := ctx.Value(callContextKey{}).(*CallContext); ok {
		return cc
	}
	return nil
}

// Start opens the call span and records the call start.
func (cc *CallContext) Start(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(WithCallContext(ctx, cc), "restkit.call "+cc.Endpoint,
		trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String(AttrClient, cc.Client),
		attribute.String(AttrEndpoint, cc.Endpoint),
		attribute.String(AttrCallID, cc.CallID),
		attribute.Bool(AttrAsync, cc.Async),
	)
	if cc.Metrics != nil {
		cc.Metrics.RecordCallStart(ctx, cc.Client, cc.Endpoint)
	}
	return ctx, span
}

// End closes the span and records the completed call. status is the HTTP
// status, or 0 when no response was received.
func (cc *CallContext) End(ctx context.Context, span trace.Span, outcome string, status int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
	if status > 0 {
		span.SetAttributes(attribute.Int(AttrStatus, status))
	}
	span.End()

	if cc.Metrics != nil {
		cc.Metrics.RecordCallEnd(ctx, cc.Client, cc.Endpoint, outcome, cc.Duration())
	}
}

// Duration returns the elapsed time since the call started.
func (cc *CallContext) Duration() time.Duration {
	return time.Since(cc.StartTime)
}
