package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/utils"
)

// Key type for context
type contextKey string

const SessionContextKey = contextKey("session")

// SessionMiddleware verifies the session token and attaches the shopper
// session to the request context
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseJWT(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := WithSession(r.Context(), models.Session{ID: claims.SessionID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSession stores sess in ctx
func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, sess)
}

// SessionFromContext returns the session attached by SessionMiddleware
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(SessionContextKey).(models.Session)
	return sess, ok && sess.ID != ""
}
