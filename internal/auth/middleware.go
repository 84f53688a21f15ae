package auth

import (
	"context"
	"net/http"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const (
	// CuratorIDKey is the context key for the resolved curator id.
	CuratorIDKey contextKey = "curator_id"
	// ClientIPKey is the context key for the client IP address.
	ClientIPKey contextKey = "client_ip"
)

// CuratorAuthMiddleware gates admin routes on the IP roster. Unresolved
// clients get the unauthorized page, never a bare 403, so curators on a new
// IP can see what to send to the roster maintainer.
type CuratorAuthMiddleware struct {
	resolver           *CuratorResolver
	renderUnauthorized func(w http.ResponseWriter, ip string)
}

func NewCuratorAuthMiddleware(resolver *CuratorResolver, renderUnauthorized func(w http.ResponseWriter, ip string)) *CuratorAuthMiddleware {
	return &CuratorAuthMiddleware{resolver: resolver, renderUnauthorized: renderUnauthorized}
}

// Handler wraps an HTTP handler with curator authentication.
func (m *CuratorAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := m.resolver.ClientIP(r)

		if !m.resolver.IsLoaded() {
			m.renderUnauthorized(w, clientIP)
			return
		}

		curatorID, found := m.resolver.CuratorID(r)
		if !found {
			m.renderUnauthorized(w, clientIP)
			return
		}

		ctx := context.WithValue(r.Context(), CuratorIDKey, curatorID)
		ctx = context.WithValue(ctx, ClientIPKey, clientIP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CuratorIDFromContext retrieves the curator id set by the middleware.
func CuratorIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(CuratorIDKey).(int)
	return id, ok
}

// ClientIPFromContext retrieves the client IP set by the middleware.
func ClientIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(ClientIPKey).(string)
	return ip, ok
}
