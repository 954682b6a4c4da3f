package web

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type ctxKey int

const (
	valuesKey ctxKey = iota + 1
	paramsKey
)

// Values carries the per-request trace ID and start time, set by App.Handle
// before a handler runs.
type Values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

// GetValues extracts the Values stored in ctx by App.Handle. Its absence
// means a handler was invoked outside of the App.Handle wrapper, which is
// a programming error severe enough to request a shutdown.
func GetValues(ctx context.Context) (*Values, error) {
	v, ok := ctx.Value(valuesKey).(*Values)
	if !ok {
		return nil, errors.New("web value missing from context")
	}
	return v, nil
}

// Param returns the named path parameter captured from r's route, or "" if
// it was not captured.
func Param(r *http.Request, key string) string {
	params, ok := r.Context().Value(paramsKey).(map[string]string)
	if !ok {
		return ""
	}
	return params[key]
}
