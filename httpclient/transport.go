package httpclient

import "context"

// Transport sends a Request and returns its Response. Implementations must be
// safe for concurrent use. A response with an error status is not an error;
// errors are reserved for failures to obtain a response at all.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Do calls f(ctx, req).
func (f TransportFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

var _ Transport = (*Adapter)(nil)
