package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/flextrack/timetrack-be/internal/auth"
	"github.com/flextrack/timetrack-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	users services.UserServiceProvider
	hours services.HoursServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, hours services.HoursServiceProvider) *UserHandler {
	return &UserHandler{users: users, hours: hours}
}

// RegisterPayload defines the structure for registration requests.
// TargetTime is a pointer so a missing key can be told apart from an
// explicit zero; the field is required.
type RegisterPayload struct {
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Company    string   `json:"company"`
	Job        string   `json:"job"`
	TargetTime *float64 `json:"target_time"`
}

// Register handles new user registration. No authentication required.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.TargetTime == nil {
		respondError(w, http.StatusBadRequest, "target time is required")
		return
	}

	user, err := h.users.Create(r.Context(), services.CreateUserParams{
		Username:   payload.Username,
		Email:      payload.Email,
		Password:   payload.Password,
		Company:    payload.Company,
		Job:        payload.Job,
		TargetTime: *payload.TargetTime,
	})
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// GetMe returns the profile of the authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update applies a partial update to the authenticated user's profile.
// Only the allow-listed fields can change; absent fields stay untouched.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	var payload struct {
		Username   *string  `json:"username"`
		Email      *string  `json:"email"`
		Company    *string  `json:"company"`
		Job        *string  `json:"job"`
		TargetTime *float64 `json:"target_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, services.ProfilePatch{
		Username:   payload.Username,
		Email:      payload.Email,
		Company:    payload.Company,
		Job:        payload.Job,
		TargetTime: payload.TargetTime,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update user")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Summary returns worked days, worked hours and flextime of the
// authenticated user.
func (h *UserHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	summary, err := h.hours.Summarize(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to summarize working hours")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
