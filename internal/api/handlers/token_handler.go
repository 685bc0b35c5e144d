package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/flextrack/timetrack-be/internal/auth"
	"github.com/flextrack/timetrack-be/internal/services"
)

// TokenHandler handles HTTP requests for bearer token issuance and
// revocation.
type TokenHandler struct {
	tokens services.TokenServiceProvider
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokens services.TokenServiceProvider) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Issue exchanges basic-auth credentials for a bearer token. An unexpired
// token with enough remaining validity is returned unchanged.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "username or password is wrong")
		return
	}

	token, err := h.tokens.GetOrIssue(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Revoke invalidates the caller's current token.
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	if err := h.tokens.Revoke(r.Context(), user.ID); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to revoke token")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
