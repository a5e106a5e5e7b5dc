package grant

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying g for the rest of the request's
// pipeline. The Grant is borrowed, never owned: it must not be retained past
// the request.
func NewContext(ctx context.Context, g *Grant) context.Context {
	return context.WithValue(ctx, contextKey{}, g)
}

// FromContext returns the Grant attached by the auth gate, or nil when the
// request reached the pipeline without one.
func FromContext(ctx context.Context) *Grant {
	g, _ := ctx.Value(contextKey{}).(*Grant)
	return g
}
