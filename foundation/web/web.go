// Package web is a thin wrapper around httptreemux that gives every
// handler a context-aware signature, a shared trace ID, and a single
// place to translate a returned error into an HTTP response.
package web

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/google/uuid"
)

// A Handler is the signature every route in this service implements. It
// returns an error instead of writing one directly; App.Handle decides how
// to render that error onto the response.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// App is the entrypoint into the web framework: wraps httptreemux,
// carries a shutdown channel so a handler can request the process stop,
// and applies a chain of middleware to every route.
type App struct {
	*httptreemux.ContextMux
	shutdown chan os.Signal
	mw       []Middleware
}

// NewApp constructs an App. shutdown is signaled by NewShutdownError so a
// handler deep in the call stack can trigger a graceful server stop.
func NewApp(shutdown chan os.Signal, mw ...Middleware) *App {
	return &App{
		ContextMux: httptreemux.NewContextMux(),
		shutdown:   shutdown,
		mw:         mw,
	}
}

// SignalShutdown tells the app to begin a graceful shutdown, used when an
// integrity issue is discovered that the process cannot recover from.
func (a *App) SignalShutdown() {
	a.shutdown <- syscall.SIGTERM
}

// Handle wires handler to method+path under the given version prefix,
// after wrapping it with the app's middleware chain.
func (a *App) Handle(method, version, path string, handler Handler) {
	handler = wrapMiddleware(a.mw, handler)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params := httptreemux.ContextParams(ctx)

		v := Values{
			TraceID: uuid.NewString(),
			Now:     time.Now(),
		}
		ctx = context.WithValue(ctx, valuesKey, &v)
		ctx = context.WithValue(ctx, paramsKey, params)
		r = r.WithContext(ctx)

		if err := handler(ctx, w, r); err != nil {
			if IsShutdown(err) {
				a.SignalShutdown()
				return
			}

			if re, ok := IsRequestError(err); ok {
				Respond(ctx, w, struct {
					Error string `json:"error"`
				}{Error: re.Error()}, re.Status)
				return
			}

			Respond(ctx, w, struct {
				Error string `json:"error"`
			}{Error: err.Error()}, http.StatusInternalServerError)
		}
	}

	finalPath := path
	if version != "" {
		finalPath = "/" + version + path
	}
	a.ContextMux.Handle(method, finalPath, h)
}
