package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/flextrack/timetrack-be/internal/auth"
	"github.com/flextrack/timetrack-be/internal/models"
	"github.com/flextrack/timetrack-be/internal/services"
)

// HoursHandler handles HTTP requests for working-hours records.
type HoursHandler struct {
	hours services.HoursServiceProvider
}

// NewHoursHandler creates a new HoursHandler.
func NewHoursHandler(hours services.HoursServiceProvider) *HoursHandler {
	return &HoursHandler{hours: hours}
}

// CreateHoursPayload defines the structure for new working-hours records.
// The date must be in format YYYY-MM-DD. Hours is a pointer so a missing
// key can be told apart from an explicit zero; the field is required.
type CreateHoursPayload struct {
	Date    string   `json:"date"`
	Hours   *float64 `json:"working_hours"`
	Comment string   `json:"comment"`
}

// List returns the authenticated user's records. With a month or year query
// parameter the result is narrowed to that month and sorted ascending by
// date; unparsable values fall back to the current month or year.
func (h *HoursHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	monthParam := r.URL.Query().Get("month")
	yearParam := r.URL.Query().Get("year")

	var list []models.WorkingHours
	var err error
	if monthParam != "" || yearParam != "" {
		now := time.Now().UTC()
		year := clampParam(yearParam, now.Year(), 2022, 3000)
		month := clampParam(monthParam, int(now.Month()), 1, 12)
		list, err = h.hours.ListByMonth(r.Context(), user.ID, year, month)
	} else {
		list, err = h.hours.List(r.Context(), user.ID)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list working hours")
		respondServiceError(w, err)
		return
	}

	if list == nil {
		list = []models.WorkingHours{}
	}
	respondJSON(w, http.StatusOK, list)
}

// Get returns one record of the authenticated user. Records of other users
// are reported as missing.
func (h *HoursHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	entry, err := h.hours.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// Create stores a new record for the authenticated user.
func (h *HoursHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	var payload CreateHoursPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Hours == nil {
		respondError(w, http.StatusBadRequest, "working hours are required")
		return
	}

	date, err := models.ParseDate(payload.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be in format YYYY-MM-DD")
		return
	}

	entry, err := h.hours.Create(r.Context(), user.ID, date, *payload.Hours, payload.Comment)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Str("date", payload.Date).Msg("Failed to create working hours")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// Update changes hours and/or comment of one record. Date and owner cannot
// be changed.
func (h *HoursHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	var payload struct {
		Hours   *float64 `json:"working_hours"`
		Comment *string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.hours.Update(r.Context(), user.ID, chi.URLParam(r, "id"), payload.Hours, payload.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// Delete removes one record of the authenticated user.
func (h *HoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid authorization token")
		return
	}

	if err := h.hours.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// clampParam parses s as an integer clamped into [min, max], falling back
// to def when s is not a number.
func clampParam(s string, def, min, max int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
