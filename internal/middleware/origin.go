package middleware

import (
	"context"
	"net/http"
)

type originContextKey struct{}

// WithOrigin attaches the request origin (scheme://host) to the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originContextKey{}, origin)
}

// OriginFromContext extracts the request origin from context. Empty when
// no origin middleware ran, in which case callers fall back to relative
// URLs.
func OriginFromContext(ctx context.Context) string {
	origin, _ := ctx.Value(originContextKey{}).(string)
	return origin
}

// OriginMiddleware records the origin the client reached us on, so
// resolvers can mint absolute URLs pointing back at this server.
// Forwarded-proto headers from a fronting proxy take precedence over the
// connection's own scheme.
func OriginMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme := "http"
			if r.TLS != nil {
				scheme = "https"
			}
			if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
				scheme = forwarded
			}

			origin := scheme + "://" + r.Host
			next.ServeHTTP(w, r.WithContext(WithOrigin(r.Context(), origin)))
		})
	}
}
