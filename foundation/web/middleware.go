package web

// Middleware wraps a Handler to add cross-cutting behavior (logging,
// error translation) without the handler itself knowing about it.
type Middleware func(Handler) Handler

// wrapMiddleware composes mw around handler, applying them in the order
// given so the first middleware in the slice is the outermost wrapper.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			handler = mw[i](handler)
		}
	}
	return handler
}
