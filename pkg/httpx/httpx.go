// Package httpx provides transport-level helpers shared by HTTP handlers:
// middleware chaining, JSON responses, credential extraction and rate
// limiting. It knows nothing about the domain.
package httpx

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h in order, so the first middleware is the
// outermost one.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
