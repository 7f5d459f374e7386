package server

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// chain wraps handler with the given middlewares, outermost first:
// chain(h, a, b) serves a(b(h)). Nil entries are skipped.
func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}
