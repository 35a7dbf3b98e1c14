package handler

import (
	"net/http"
	"strconv"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/service"
)

// ProfileHandler exposes the profile view and notifications.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe returns the caller's profile: user, resolved level and stats.
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), auth.SubjectFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, profile)
}

// Ranking returns the community leaderboard.
func (h *ProfileHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.profiles.Ranking(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, entries)
}

// MyNotifications returns the caller's notifications, newest first.
func (h *ProfileHandler) MyNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.profiles.ListNotifications(r.Context(), auth.SubjectFromContext(r.Context()), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, notifications)
}
