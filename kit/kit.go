// Package kit carries the small amount of transport-agnostic glue shared by
// the lorebase tool surfaces: the Endpoint function type, middleware
// chaining, and the adapter that mounts an Endpoint as an MCP tool.
package kit

import "context"

// Endpoint is a transport-agnostic request handler. The request and response
// are typed by the caller; decode functions at the transport edge produce
// the concrete request value.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so that the first argument is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
