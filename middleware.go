package errnormalize

import (
	"context"
	"net/http"
)

type ctxKey string

const normalizerKey ctxKey = "errnormalize.normalizer"

// WithNormalizer stores n in the context.
func WithNormalizer(ctx context.Context, n *Normalizer) context.Context {
	return context.WithValue(ctx, normalizerKey, n)
}

// FromContext returns the Normalizer bound to ctx, or the default one.
func FromContext(ctx context.Context) *Normalizer {
	if ctx != nil {
		if n, ok := ctx.Value(normalizerKey).(*Normalizer); ok && n != nil {
			return n
		}
	}
	return defaultNormalizer
}

// ForRequest returns a copy of n whose default trace ID is the inbound
// request's trace header, when it has one. The receiver is not changed.
func (n *Normalizer) ForRequest(r *http.Request) *Normalizer {
	if n == nil {
		n = defaultNormalizer
	}
	if r == nil {
		return n
	}
	id := r.Header.Get(n.traceHeader)
	if id == "" {
		return n
	}
	c := *n
	c.newID = func() string { return id }
	return &c
}

// Middleware binds n.ForRequest(r) to every request's context so
// handlers can call FromContext(r.Context()).Normalize(err).
func Middleware(n *Normalizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithNormalizer(r.Context(), n.ForRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
