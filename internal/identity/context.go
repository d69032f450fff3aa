package identity

import "context"

type ctxKey struct{}

// WithProvider returns a context carrying p.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the provider in scope. It panics when there is
// none.
func FromContext(ctx context.Context) *Provider {
	p, ok := Lookup(ctx)
	if !ok {
		panic("identity: no Provider in context")
	}
	return p
}

// Lookup is FromContext without the panic.
func Lookup(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Provider)
	return p, ok && p != nil
}
