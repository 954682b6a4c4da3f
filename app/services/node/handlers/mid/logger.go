// Package mid holds the cross-cutting middleware shared by every route
// group in the node's HTTP surface.
package mid

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/qcbit/ledger/foundation/web"
)

// Logger logs the start and completion of every request, including its
// trace ID and final status code.
func Logger(log *zap.SugaredLogger) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			log.Infow("request started", "traceid", v.TraceID, "method", r.Method, "path", r.URL.Path)

			start := time.Now()
			err = handler(ctx, w, r)

			log.Infow("request completed", "traceid", v.TraceID, "method", r.Method, "path", r.URL.Path,
				"statuscode", v.StatusCode, "since", time.Since(start))

			return err
		}
	}
}

// Errors logs any error a handler returns, so a handler returning an error
// that gets rendered by App.Handle (not panicked) still leaves a trace in
// the logs.
func Errors(log *zap.SugaredLogger) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if err := handler(ctx, w, r); err != nil {
				v, verr := web.GetValues(ctx)
				traceID := "unknown"
				if verr == nil {
					traceID = v.TraceID
				}
				log.Errorw("request error", "traceid", traceID, "ERROR", err)
				return err
			}
			return nil
		}
	}
}

// Panics recovers from a panic inside handler and turns it into a 500,
// rather than letting it crash the whole process.
func Panics() web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = errors.New("web: panic recovered")
				}
			}()
			return handler(ctx, w, r)
		}
	}
}
