package middleware

import (
	"context"
	"net/http"
	"strings"

	"jcbcommunity/internal/models"
)

type contextKey int

const (
	userKey contextKey = iota
	authErrorKey
)

// TokenParser turns a bearer token into the caller identity.
type TokenParser interface {
	GetUserFromToken(tokenString string) (*models.User, error)
}

// Authenticate resolves the bearer token, if any, and stores the caller in the
// request context. It never rejects a request on its own; RequireAuth does.
func Authenticate(parser TokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			// Checking the "Bearer <token>" format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				ctx = context.WithValue(ctx, authErrorKey, "invalid authorization header format")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			user, err := parser.GetUserFromToken(parts[1])
			if err != nil {
				ctx = context.WithValue(ctx, authErrorKey, err.Error())
			} else {
				ctx = WithUser(ctx, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			message := "authorization required"
			if reason, ok := r.Context().Value(authErrorKey).(string); ok {
				message = reason
			}
			writeError(w, message, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// UserIDFromContext returns "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.UserID
	}
	return ""
}
