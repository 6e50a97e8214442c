// Package httpclient is the transport layer of restkit: it turns a fully
// resolved Request into an HTTP round trip and hands back the raw Response.
//
// The Adapter returns a Response for every status code; deciding what a 4xx
// or 5xx means is left to the caller, which classifies it with
// ClassifyResponse. Only transport failures are returned as errors:
// timeouts as ErrCodeTimeout, everything else as ErrCodeConnection.
//
// # Basic Usage
//
//	a, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/things/2345/",
//	    Query:  []httpclient.Param{{Key: "type", Value: "cat"}},
//	})
//
// Every request runs in an OpenTelemetry client span and carries the W3C
// trace context of ctx in its headers.
package httpclient
