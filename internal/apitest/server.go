// Package apitest provides a recording mock REST API for tests.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Request is one request received by the server.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Server is a gin-backed httptest server that records every request.
type Server struct {
	engine *gin.Engine
	ts     *httptest.Server

	mu       sync.Mutex
	requests []Request
}

// New starts a server and closes it when the test ends. Register routes on
// Engine before issuing requests.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{engine: gin.New()}
	s.engine.RedirectTrailingSlash = false
	s.engine.Use(gin.Recovery(), s.record)
	s.ts = httptest.NewServer(s.engine)
	t.Cleanup(s.ts.Close)
	return s
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()
	c.Next()
}

// Engine returns the gin engine for registering routes.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// URL returns the server base URL.
func (s *Server) URL() string {
	return s.ts.URL
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns the number of recorded requests.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request.
func (s *Server) Last() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// JSON responds with status and body encoded as JSON.
func JSON(status int, body any) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, body)
	}
}

// Data responds with status and raw body under contentType.
func Data(status int, contentType string, body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(status, contentType, body)
	}
}

// Status responds with an empty body.
func Status(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(status)
	}
}

// Echo responds with a JSON description of the request it received.
func Echo() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.JSON(http.StatusOK, gin.H{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"query":  c.Request.URL.RawQuery,
			"body":   string(body),
		})
	}
}

// Delay waits d, or until the client goes away, before running h.
func Delay(d time.Duration, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case <-time.After(d):
			h(c)
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}
