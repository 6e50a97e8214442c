// Package endpoint declares REST API operations and binds call arguments
// against them.
//
// An endpoint is defined once, with its HTTP method, a path template,
// querystring arguments, header templates and a body policy:
//
//	var getThings = endpoint.MustNew(endpoint.MethodGet, "/things/{user_id}/",
//	    endpoint.WithQuery(
//	        endpoint.RequiredParam("type"),
//	        endpoint.Param("offset_id"),
//	        endpoint.ParamDefault("limit", 25),
//	    ),
//	    endpoint.WithHeader("Authorization", "Bearer {access_token}"),
//	)
//
// Path and header placeholders are free-form names chosen by the client
// author; querystring names are part of the remote API. All of them share
// one namespace at call time, so New rejects a name used by two sources.
//
// Resolve turns call arguments into a bound path, an ordered querystring and
// header values. Building and sending the request is left to the client
// package.
package endpoint
