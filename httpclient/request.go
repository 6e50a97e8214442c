package httpclient

import (
	"net/http"
	"strings"
)

// Param is one querystring pair. Query parameters keep their order.
type Param struct {
	Key   string
	Value string
}

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the adapter's BaseURL. It may be a full URL when
	// BaseURL is empty or the path starts with a scheme.
	Path string
	// Headers are request-specific headers, applied after the adapter's
	// default headers.
	Headers map[string]string
	// Query is appended to the URL in order, after any query already in Path.
	Query []Param
	// Body is the encoded request body; nil sends no body.
	Body []byte
	// Auth overrides the adapter-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, first value per canonical key.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Header returns the value of the named header, matched case-insensitively.
func (r *Response) Header(key string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	if v, ok := r.Headers[http.CanonicalHeaderKey(key)]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// ContentType returns the Content-Type header of the response.
func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
