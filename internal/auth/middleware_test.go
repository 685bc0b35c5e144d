package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flextrack/timetrack-be/internal/models"
	"github.com/flextrack/timetrack-be/internal/services"
)

type fakeTokenService struct {
	services.TokenServiceProvider
	valid map[string]models.User
}

func (f *fakeTokenService) Resolve(_ context.Context, token string) (models.User, error) {
	if user, ok := f.valid[token]; ok {
		return user, nil
	}
	return models.User{}, services.ErrUnauthorized
}

type fakeUserService struct {
	services.UserServiceProvider
	username string
	password string
	user     models.User
}

func (f *fakeUserService) Authenticate(_ context.Context, username, password string) (models.User, error) {
	if username == f.username && password == f.password {
		return f.user, nil
	}
	return models.User{}, services.ErrUnauthorized
}

func echoUserHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		require.True(t, ok, "user missing from request context")
		w.Write([]byte(user.Username))
	})
}

func TestBearer(t *testing.T) {
	alice := models.User{ID: "u1", Username: "alice"}
	tokens := &fakeTokenService{valid: map[string]models.User{"good-token": alice}}
	handler := Bearer(tokens)(echoUserHandler(t))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer bad-token", http.StatusUnauthorized, ""},
		{"valid token", "Bearer good-token", http.StatusOK, "alice"},
		{"case-insensitive scheme", "bearer good-token", http.StatusOK, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error": "invalid authorization token"}`, rec.Body.String())
			}
		})
	}
}

func TestBasic(t *testing.T) {
	bob := models.User{ID: "u2", Username: "bob"}
	users := &fakeUserService{username: "bob", password: "pw", user: bob}
	handler := Basic(users)(echoUserHandler(t))

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.SetBasicAuth("bob", "pw")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bob", rec.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.SetBasicAuth("bob", "nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
