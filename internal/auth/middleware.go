package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tasknest/task-manager-api/pkg/respond"
)

type contextKey struct{}

// Middleware rejects requests without a valid bearer token and attaches
// the caller's identity to the request context.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
				return
			}

			identity, err := m.Validate(token)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "invalid or missing token")
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the caller identity stored by Middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// WithIdentity attaches an identity directly, bypassing token parsing.
// Intended for tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}
