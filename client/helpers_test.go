package client

import (
	"context"
	"sync"
	"testing"

	"github.com/kbukum/restkit/endpoint"
	"github.com/kbukum/restkit/httpclient"
)

// spy is an in-memory transport that records requests.
type spy struct {
	mu   sync.Mutex
	reqs []httpclient.Request
	resp *httpclient.Response
	err  error
}

func newSpy(resp *httpclient.Response, err error) *spy {
	return &spy{resp: resp, err: err}
}

func (s *spy) transport() httpclient.Transport {
	return httpclient.TransportFunc(func(_ context.Context, req httpclient.Request) (*httpclient.Response, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.reqs = append(s.reqs, req)
		return s.resp, s.err
	})
}

func (s *spy) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

func (s *spy) last(t *testing.T) httpclient.Request {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		t.Fatal("transport was not called")
	}
	return s.reqs[len(s.reqs)-1]
}

func jsonResponse(body string) *httpclient.Response {
	return &httpclient.Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}
}

func newTestClient(t *testing.T, cfg Config, opts ...Option) *Client {
	t.Helper()
	c, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Stop(context.Background()) })
	return c
}

var getThings = endpoint.MustNew(endpoint.MethodGet, "/things/{user_id}/",
	endpoint.WithQuery(endpoint.RequiredParam("type")),
)

var createPet = endpoint.MustNew(endpoint.MethodPost, "/pets",
	endpoint.WithBodyType(endpoint.BodyForm),
	endpoint.WithBodyRequired(),
)
