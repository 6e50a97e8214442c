// Package client turns endpoint declarations into callable methods.
//
// A Client owns an ordered set of named endpoint.Specs and the shared
// configuration every call reads: base URL, default headers, timeout and
// user agent.
//
//	c, err := client.New(client.Config{BaseURL: "https://api.example.com"},
//	    client.WithEndpoint("get_things", getThings),
//	)
//	getThingsFn, _ := c.Method("get_things")
//	v, err := getThingsFn(ctx, endpoint.Args{"user_id": 2345, "type": "cat"})
//
// Every call goes through the same two steps. Preparation resolves
// arguments, binds templates, merges headers and encodes the body; it runs
// on the calling goroutine and reports caller mistakes before any I/O.
// Dispatch sends the request through the transport and decodes the
// response. Call runs dispatch inline; CallAsync hands it to the client's
// Executor and returns a future, so asynchrony changes only when a result is
// observed.
//
// A response with status 400 or above is returned as an *httpclient.Error.
// A transport timeout is reported as the same error a real 504 Gateway
// Timeout would produce. Other transport failures are returned as the
// transport reported them.
package client
