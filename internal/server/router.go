package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRouter implements [Router] on top of a chi mux.
//
// Middleware is applied when a handler is registered, so [ChiRouter.Use] may be called at any
// point without chi's "middlewares must be defined before routes" panic. Handlers registered
// before a Use call do not get that middleware.
type ChiRouter struct {
	mux         *chi.Mux
	middlewares []Middleware
}

// NewRouter creates a [ChiRouter] whose unknown routes and methods answer with JSON errors.
func NewRouter() *ChiRouter {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return &ChiRouter{mux: mux}
}

// Use adds [Middleware] to the stack, applied in the order it's added.
func (r *ChiRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method and path, wrapped with the current middleware.
//
// Preflight OPTIONS requests for the path are routed through the same middleware so CORS can
// answer them.
func (r *ChiRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, r.Apply(handler))
	if method != http.MethodOptions {
		r.mux.Method(http.MethodOptions, path, r.Apply(http.HandlerFunc(noContent)))
	}
}

// Handler registers every route of a [Handler] for all methods.
func (r *ChiRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)
	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware, first added outermost.
func (r *ChiRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
