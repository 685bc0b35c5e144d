package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flextrack/timetrack-be/internal/models"
	"github.com/flextrack/timetrack-be/internal/services"
)

type contextKey string

const userKey = contextKey("currentUser")

// CurrentUser returns the authenticated user placed in the context by one of
// the middlewares.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// Basic authenticates the request via HTTP basic auth and puts the user into
// the request context. Used only for token issuance.
func Basic(users services.UserServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, "username or password is wrong")
				return
			}

			user, err := users.Authenticate(r.Context(), username, password)
			if err != nil {
				unauthorized(w, "username or password is wrong")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Bearer authenticates the request via an opaque bearer token and puts the
// resolved user into the request context. A missing, unknown or expired
// token is rejected the same way.
func Bearer(tokens services.TokenServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "invalid authorization token")
				return
			}

			user, err := tokens.Resolve(r.Context(), token)
			if err != nil {
				unauthorized(w, "invalid authorization token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
