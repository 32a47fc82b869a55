package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const principalKey ctxKey = "principal"

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(principalKey).(*User)
	return u, ok
}

// UserSource resolves a token subject to a stored user.
type UserSource interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Identify resolves the bearer token on each request and, when it checks
// out against the user store, attaches the user to the request context.
// It only annotates: a missing, malformed, expired or unknown token leaves
// the request anonymous and the request is always forwarded. Rejecting
// anonymous requests is RequireUser's job.
func Identify(codec *JWT, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")

			// signature+expiry first, so garbage never reaches the store
			if !codec.Valid(token) {
				next.ServeHTTP(w, r)
				return
			}
			sub, ok := codec.Subject(token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.FindByUsername(r.Context(), sub)
			if err != nil || u == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
		})
	}
}

// RequireUser rejects requests that Identify left anonymous.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Error(w, "authentication required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
